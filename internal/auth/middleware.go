package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/domain"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// SessionVerifier validates a presented session token.
type SessionVerifier interface {
	VerifyToken(token string) (*domain.Identity, error)
}

// AuthMiddleware validates session tokens and loads the caller identity.
type AuthMiddleware struct {
	sessions     SessionVerifier
	secureCookie bool
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions SessionVerifier, secureCookie bool) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, secureCookie: secureCookie}
}

// Handle enforces authentication for API routes and answers 401 on failure.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, err := m.sessions.VerifyToken(TokenFromRequest(c))
	if err != nil {
		return apperrors.NewUnauthorized(unauthorizedMessage(err))
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// RequirePage enforces authentication for rendered pages. Failures drop any stale cookie
// and redirect to loginPath.
func (m *AuthMiddleware) RequirePage(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		identity, err := m.sessions.VerifyToken(token)
		if err != nil {
			if token != "" {
				ClearSessionCookie(c, m.secureCookie)
			}
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Optional loads the identity when a valid token is present and never rejects.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if identity, err := m.sessions.VerifyToken(TokenFromRequest(c)); err == nil {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "authentication required"
	case errors.Is(err, domain.ErrExpired):
		return "session expired"
	default:
		return "invalid session"
	}
}
