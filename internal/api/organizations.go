package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/services"
)

// ListOrganizations returns the organizations the current principal is
// enrolled in, with derived counts.
// (GET /api/v1/organizations)
func (s *Server) ListOrganizations(c echo.Context) error {
	orgs, err := s.Organizations.List(c.Request().Context(), actor(c).UserID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"total":         len(orgs),
		"organizations": orgs,
	})
}

// GetOrganization returns a single organization with derived counts.
// (GET /api/v1/organizations/:id)
func (s *Server) GetOrganization(c echo.Context) error {
	org, err := s.Organizations.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "organization": org})
}

// CreateOrganization creates an organization and enrolls the current
// principal as its admin.
// (POST /api/v1/organizations)
func (s *Server) CreateOrganization(c echo.Context) error {
	var in services.CreateOrganizationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	created, err := s.Organizations.Create(c.Request().Context(), in, actor(c).UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "organization": created})
}

// UpdateOrganization applies a partial update to an organization.
// (PUT /api/v1/organizations/:id)
func (s *Server) UpdateOrganization(c echo.Context) error {
	var in services.UpdateOrganizationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Organizations.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "organization": updated})
}

// ListMembers returns an organization's members with user display
// fields.
// (GET /api/v1/organizations/:id/members)
func (s *Server) ListMembers(c echo.Context) error {
	members, err := s.Organizations.Members(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"total":   len(members),
		"members": members,
	})
}

// InviteMember enrolls a member by email. No mail is sent; the invitee
// is added directly.
// (POST /api/v1/organizations/:id/invite)
func (s *Server) InviteMember(c echo.Context) error {
	var in struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	if _, err := s.Organizations.Invite(c.Request().Context(), c.Param("id"), in.Email, in.Role); err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"invite_sent": true,
		"message":     fmt.Sprintf("Invitation sent to %s", in.Email),
	})
}

// RemoveMember drops a membership.
// (DELETE /api/v1/organizations/:id/members/:user_id)
func (s *Server) RemoveMember(c echo.Context) error {
	if err := s.Organizations.RemoveMember(c.Request().Context(), c.Param("id"), c.Param("user_id")); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateMemberRole changes a member's role.
// (PATCH /api/v1/organizations/:id/members/:user_id)
func (s *Server) UpdateMemberRole(c echo.Context) error {
	var in struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Organizations.UpdateMemberRole(c.Request().Context(), c.Param("id"), c.Param("user_id"), in.Role)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "new_role": updated.Role})
}
