package handlers

import (
	"errors"
	"net/http"

	"github.com/spec-kit/chat-service/internal/domain"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// mapError translates service sentinels into API errors. Unknown errors become INTERNAL_ERROR.
func mapError(err error) error {
	var domainErr *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.NewDomainError("DUPLICATE_EMAIL", "email already in use", http.StatusConflict, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewInvalidCredentials()
	case errors.Is(err, domain.ErrStoreUnavailable):
		return apperrors.NewServiceUnavailable("service temporarily unavailable", err)
	case errors.Is(err, domain.ErrMissingToken):
		return apperrors.NewUnauthorized("authentication required")
	case errors.Is(err, domain.ErrExpired):
		return apperrors.NewUnauthorized("session expired")
	case errors.Is(err, domain.ErrInvalidToken):
		return apperrors.NewUnauthorized("invalid session")
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound("conversation", nil)
	case errors.Is(err, domain.ErrCurrentPasswordRequired):
		return apperrors.NewBadRequest("CURRENT_PASSWORD_REQUIRED", "current password is required to set a new one")
	case errors.Is(err, domain.ErrNoChanges):
		return apperrors.NewBadRequest("NO_CHANGES", "no changes were made")
	case errors.Is(err, domain.ErrEmptyConversation):
		return apperrors.NewBadRequest("EMPTY_CONVERSATION", "at least one user message is required")
	case errors.Is(err, domain.ErrInvalidInput):
		return apperrors.NewValidationError(err.Error(), nil)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return apperrors.NewUpstreamError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}

// errorMessage is the user-facing text for an error on a rendered page.
func errorMessage(err error) string {
	de := apperrors.ToDomainError(mapError(err))
	return de.Message
}

// errorStatus is the HTTP status for an error on a rendered page.
func errorStatus(err error) int {
	return apperrors.ToDomainError(mapError(err)).HTTPStatus
}
