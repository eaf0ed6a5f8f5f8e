package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/service"
)

// sessions issues and clears the session cookie. Only handlers write cookies.
type sessions struct {
	auth         *service.AuthService
	secureCookie bool
}

func (s sessions) start(c *fiber.Ctx, identity domain.Identity) (string, time.Time, error) {
	token, expiresAt, err := s.auth.IssueToken(identity)
	if err != nil {
		return "", time.Time{}, err
	}
	auth.SetSessionCookie(c, token, s.auth.SessionTTL(), s.secureCookie)
	return token, expiresAt, nil
}

func (s sessions) end(c *fiber.Ctx) {
	_ = s.auth.Revoke(c.UserContext(), auth.TokenFromRequest(c))
	auth.ClearSessionCookie(c, s.secureCookie)
}

func userResponse(identity domain.Identity) dto.UserResponse {
	return dto.UserResponse{ID: identity.ID, Name: identity.DisplayName, Email: identity.Email}
}

func currentIdentity(c *fiber.Ctx) (*domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return identity, nil
}
