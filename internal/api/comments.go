package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/services"
)

// ListComments returns comments filtered by workflow and/or step.
// (GET /api/v1/comments?workflow_id=...&step_id=...)
func (s *Server) ListComments(c echo.Context) error {
	workflowID := c.QueryParam("workflow_id")
	stepID := c.QueryParam("step_id")

	comments, err := s.Comments.List(c.Request().Context(), workflowID, stepID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"workflow_id": workflowID,
		"step_id":     stepID,
		"comments":    comments,
	})
}

// ListStepComments returns comments attached to a single step.
// (GET /api/v1/comments/step/:step_id)
func (s *Server) ListStepComments(c echo.Context) error {
	stepID := c.Param("step_id")

	comments, err := s.Comments.List(c.Request().Context(), "", stepID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"step_id":  stepID,
		"comments": comments,
	})
}

// CreateComment creates a comment authored by the current principal.
// (POST /api/v1/comments)
func (s *Server) CreateComment(c echo.Context) error {
	var in services.CreateCommentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	created, err := s.Comments.Create(c.Request().Context(), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"comment_id": created.ID,
		"data":       created,
	})
}

// UpdateComment rewrites a comment's content. Only the author may do
// this.
// (PUT /api/v1/comments/:id)
func (s *Server) UpdateComment(c echo.Context) error {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Comments.Update(c.Request().Context(), c.Param("id"), in.Content, actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "comment": updated})
}

// DeleteComment removes a comment. Only the author may do this.
// (DELETE /api/v1/comments/:id)
func (s *Server) DeleteComment(c echo.Context) error {
	if err := s.Comments.Delete(c.Request().Context(), c.Param("id"), actor(c).UserID); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted"})
}
