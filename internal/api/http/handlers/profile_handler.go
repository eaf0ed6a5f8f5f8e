package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/service"
)

// ProfileHandler lets the caller edit their own account.
type ProfileHandler struct {
	profiles *service.ProfileService
	sessions sessions
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService, authService *service.AuthService, secureCookie bool) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		sessions: sessions{auth: authService, secureCookie: secureCookie},
	}
}

// Update handles PUT /api/profile. A fresh session carrying the new name is issued.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}

	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	updated, err := h.profiles.Update(c.UserContext(), identity.ID, req.Name, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return mapError(err)
	}

	token, expiresAt, err := h.sessions.start(c, *updated)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(dto.AuthResponse{User: userResponse(*updated), Token: token, ExpiresAt: expiresAt})
}
