package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListActivities returns the audit trail newest-first, filtered by any
// combination of organization, workflow, and user.
// (GET /api/v1/activity-logs)
func (s *Server) ListActivities(c echo.Context) error {
	orgID := c.QueryParam("org_id")
	workflowID := c.QueryParam("workflow_id")
	userID := c.QueryParam("user_id")

	activities, err := s.Activities.List(c.Request().Context(), orgID, workflowID, userID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"organization_id": orgID,
		"workflow_id":     workflowID,
		"user_id":         userID,
		"activities":      activities,
	})
}
