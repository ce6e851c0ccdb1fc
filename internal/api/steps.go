package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/services"
	"workflow-copilot/backend/pkg/models"
)

// ListSteps returns a workflow's steps in display order.
// (GET /api/v1/steps?workflow_id=...)
func (s *Server) ListSteps(c echo.Context) error {
	workflowID := c.QueryParam("workflow_id")

	steps, err := s.Steps.List(c.Request().Context(), workflowID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"workflow_id": workflowID,
		"steps":       steps,
	})
}

// CreateStep creates a step within an existing workflow.
// (POST /api/v1/steps)
func (s *Server) CreateStep(c echo.Context) error {
	var in services.CreateStepInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	created, err := s.Steps.Create(c.Request().Context(), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "step": created})
}

// GetStep returns a single step.
// (GET /api/v1/steps/:id)
func (s *Server) GetStep(c echo.Context) error {
	step, err := s.Steps.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "step": step})
}

// UpdateStep applies a partial update to a step.
// (PUT/PATCH /api/v1/steps/:id)
func (s *Server) UpdateStep(c echo.Context) error {
	var in services.UpdateStepInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Steps.Update(c.Request().Context(), c.Param("id"), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "step": updated})
}

// UpdateStepStatus moves a step through its lifecycle. Completing a step
// stamps who completed it and when.
// (PATCH /api/v1/steps/:id/status)
func (s *Server) UpdateStepStatus(c echo.Context) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Steps.SetStatus(c.Request().Context(), c.Param("id"), models.StepStatus(in.Status), actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "step": updated})
}

// DeleteStep removes a step.
// (DELETE /api/v1/steps/:id)
func (s *Server) DeleteStep(c echo.Context) error {
	if err := s.Steps.Delete(c.Request().Context(), c.Param("id"), actor(c).UserID); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Step deleted"})
}
