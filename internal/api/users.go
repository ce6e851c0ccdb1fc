package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-copilot/backend/internal/services"
)

// GetCurrentUser returns the profile of the current principal. A
// principal without a stored profile still gets its identity fields.
// (GET /api/v1/users/me)
func (s *Server) GetCurrentUser(c echo.Context) error {
	p := actor(c)

	user, err := s.Users.Get(c.Request().Context(), p.UserID)
	if err != nil {
		if services.CodeOf(err) == services.CodeNotFound {
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"user_id": p.UserID,
				"email":   p.Email,
			})
		}
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"user_id":    p.UserID,
		"email":      p.Email,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"phone":      user.Phone,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	})
}

// UpdateCurrentUser patches the current principal's profile. The email
// always comes from the credential, never the request body.
// (PUT /api/v1/users/me)
func (s *Server) UpdateCurrentUser(c echo.Context) error {
	p := actor(c)

	var in services.UpsertUserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	in.Email = &p.Email

	user, err := s.Users.Upsert(c.Request().Context(), p.UserID, in)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"user_id":    p.UserID,
		"email":      user.Email,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"phone":      user.Phone,
		"updated_at": user.UpdatedAt,
	})
}

// GetUser returns another user's public display fields.
// (GET /api/v1/users/:id)
func (s *Server) GetUser(c echo.Context) error {
	user, err := s.Users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"user_id":    user.ID,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
	})
}
