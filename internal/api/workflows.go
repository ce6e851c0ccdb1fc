package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/services"
)

// ListWorkflows returns all workflows, optionally scoped to an
// organization via the org_id query parameter.
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	ctx := c.Request().Context()
	orgID := c.QueryParam("org_id")

	workflows, err := s.Workflows.List(ctx, orgID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"organization_id": orgID,
		"workflows":       workflows,
	})
}

// GetWorkflow returns a single workflow with its steps.
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	wf, err := s.Workflows.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "workflow": wf})
}

// CreateWorkflow creates a workflow owned by the current principal.
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	var in services.CreateWorkflowInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	created, err := s.Workflows.Create(c.Request().Context(), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"workflow_id": created.ID,
		"data":        created,
	})
}

// UpdateWorkflow applies a partial update to a workflow.
// (PUT/PATCH /api/v1/workflows/:id)
func (s *Server) UpdateWorkflow(c echo.Context) error {
	var in services.UpdateWorkflowInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Workflows.Update(c.Request().Context(), c.Param("id"), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "workflow": updated})
}

// DeleteWorkflow removes a workflow and all of its steps and comments.
// (DELETE /api/v1/workflows/:id)
func (s *Server) DeleteWorkflow(c echo.Context) error {
	if err := s.Workflows.Delete(c.Request().Context(), c.Param("id"), actor(c).UserID); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Workflow deleted"})
}
