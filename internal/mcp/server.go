package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-copilot/backend/internal/services"
	"workflow-copilot/backend/pkg/models"
)

// Tool calls arrive without a user credential, so mutations are
// attributed to a fixed agent identity.
const agentUserID = "mcp-agent"

type Server struct {
	mcpServer *server.MCPServer
	workflows *services.WorkflowService
	steps     *services.StepService
	ai        *services.AIService
}

func NewServer(workflows *services.WorkflowService, steps *services.StepService, ai *services.AIService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Copilot",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflows: workflows,
		steps:     steps,
		ai:        ai,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"convert_text",
			mcp.WithDescription("Convert raw text (emails, policies, documents) into a structured workflow draft"),
			mcp.WithString("raw_text", mcp.Required(), mcp.Description("The text to convert")),
		),
		s.handleConvertText,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_workflow",
			mcp.WithDescription("Create a new workflow"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The workflow title")),
			mcp.WithString("description", mcp.Description("The workflow description")),
		),
		s.handleCreateWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_workflows",
			mcp.WithDescription("List workflows, optionally scoped to an organization"),
			mcp.WithString("org_id", mcp.Description("Organization id to filter by")),
		),
		s.handleListWorkflows,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"complete_step",
			mcp.WithDescription("Mark a workflow step as completed"),
			mcp.WithString("step_id", mcp.Required(), mcp.Description("The ID of the step")),
		),
		s.handleCompleteStep,
	)
}

func (s *Server) handleConvertText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	rawText, ok := args["raw_text"].(string)
	if !ok || rawText == "" {
		return mcp.NewToolResultError("Missing required parameter: raw_text"), nil
	}

	draft, err := s.ai.Convert(ctx, rawText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to convert: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(draft)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCreateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}
	description, _ := args["description"].(string)

	wf, err := s.workflows.Create(ctx, services.CreateWorkflowInput{
		Title:       title,
		Description: description,
	}, agentUserID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create workflow: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(wf)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgID := ""
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		orgID, _ = args["org_id"].(string)
	}

	workflows, err := s.workflows.List(ctx, orgID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list workflows: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(workflows)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCompleteStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	stepID, ok := args["step_id"].(string)
	if !ok || stepID == "" {
		return mcp.NewToolResultError("Missing required parameter: step_id"), nil
	}

	step, err := s.steps.SetStatus(ctx, stepID, models.StepStatusCompleted, agentUserID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to complete step: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(step)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
