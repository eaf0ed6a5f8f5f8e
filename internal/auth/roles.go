package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/domain"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// AdminLookup reads the admin flag from the credential store.
type AdminLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RequireAdmin ensures the authenticated caller carries the admin flag. The flag is read from
// the store on every request, never from the token.
func RequireAdmin(users AdminLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		user, err := users.GetByID(c.UserContext(), identity.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperrors.NewForbidden("admin required")
			}
			return apperrors.NewInternalError(err)
		}
		if !user.IsAdmin {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}
