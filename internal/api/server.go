// Package api contains the HTTP handlers for the workflow service.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/auth"
	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/internal/services"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflows     *services.WorkflowService
	Steps         *services.StepService
	Comments      *services.CommentService
	Organizations *services.OrganizationService
	Users         *services.UserService
	Activities    *services.ActivityService
	AI            *services.AIService
	Logger        *logging.Logger
}

// RegisterRoutes mounts all versioned API routes on the given group. The
// group is expected to already carry the auth middleware, so every
// handler can assume a resolved principal.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.GET("/workflows", s.ListWorkflows)
	g.POST("/workflows", s.CreateWorkflow)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.PUT("/workflows/:id", s.UpdateWorkflow)
	g.PATCH("/workflows/:id", s.UpdateWorkflow)
	g.DELETE("/workflows/:id", s.DeleteWorkflow)

	g.GET("/steps", s.ListSteps)
	g.POST("/steps", s.CreateStep)
	g.GET("/steps/:id", s.GetStep)
	g.PUT("/steps/:id", s.UpdateStep)
	g.PATCH("/steps/:id", s.UpdateStep)
	g.PATCH("/steps/:id/status", s.UpdateStepStatus)
	g.DELETE("/steps/:id", s.DeleteStep)

	g.GET("/comments", s.ListComments)
	g.GET("/comments/step/:step_id", s.ListStepComments)
	g.POST("/comments", s.CreateComment)
	g.PUT("/comments/:id", s.UpdateComment)
	g.DELETE("/comments/:id", s.DeleteComment)

	g.GET("/organizations", s.ListOrganizations)
	g.POST("/organizations", s.CreateOrganization)
	g.GET("/organizations/:id", s.GetOrganization)
	g.PUT("/organizations/:id", s.UpdateOrganization)
	g.GET("/organizations/:id/members", s.ListMembers)
	g.POST("/organizations/:id/invite", s.InviteMember)
	g.DELETE("/organizations/:id/members/:user_id", s.RemoveMember)
	g.PATCH("/organizations/:id/members/:user_id", s.UpdateMemberRole)

	g.GET("/users/me", s.GetCurrentUser)
	g.PUT("/users/me", s.UpdateCurrentUser)
	g.GET("/users/:id", s.GetUser)

	g.GET("/activity-logs", s.ListActivities)

	g.POST("/ai/convert", s.ConvertText)
	g.POST("/ai/convert-and-save", s.ConvertAndSave)
	g.POST("/ai/rewrite", s.RewriteStep)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK).
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "workflow-copilot",
		Version:   "1.0.0",
	})
}

// actor returns the principal resolved by the auth middleware.
func actor(c echo.Context) auth.Principal {
	p, _ := auth.PrincipalFrom(c.Request().Context())
	return p
}

// statusFor maps a service failure classification to an HTTP status.
func statusFor(code services.Code) int {
	switch code {
	case services.CodeInvalidInput:
		return http.StatusBadRequest
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

// fail converts a service error into an HTTP error response carrying the
// failure classification.
func fail(err error) error {
	code := services.CodeOf(err)
	return echo.NewHTTPError(statusFor(code), echo.Map{
		"success": false,
		"code":    string(code),
		"error":   err.Error(),
	})
}
