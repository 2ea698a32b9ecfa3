package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProfileHandler returns the authenticated identity.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type profileResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Profile echoes the subject and role from the validated token.
//
// @Summary      Current user profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/profile [get]
func (h *ProfileHandler) Profile(c echo.Context) error {
	subject, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Email: subject, Role: string(role)})
}
