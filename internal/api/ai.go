package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConvertText converts raw text into a structured workflow draft without
// persisting it.
// (POST /api/v1/ai/convert)
func (s *Server) ConvertText(c echo.Context) error {
	var in struct {
		RawText string `json:"raw_text"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	draft, err := s.AI.Convert(c.Request().Context(), in.RawText)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "workflow": draft})
}

// ConvertAndSave converts raw text and persists the result as a draft
// workflow with its generated steps.
// (POST /api/v1/ai/convert-and-save)
func (s *Server) ConvertAndSave(c echo.Context) error {
	var in struct {
		RawText        string  `json:"raw_text"`
		Title          string  `json:"title"`
		OrganizationID *string `json:"organization_id"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	result, err := s.AI.ConvertAndSave(c.Request().Context(), in.RawText, in.Title, in.OrganizationID, actor(c).UserID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"workflow_id":   result.WorkflowID,
		"steps_created": result.StepsCreated,
	})
}

// RewriteStep rephrases step text in the requested tone.
// (POST /api/v1/ai/rewrite)
func (s *Server) RewriteStep(c echo.Context) error {
	var in struct {
		StepText string `json:"step_text"`
		Tone     string `json:"tone"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	rewritten, err := s.AI.Rewrite(c.Request().Context(), in.StepText, in.Tone)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rewritten": rewritten})
}
