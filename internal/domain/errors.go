package domain

import "errors"

// Authentication outcomes. Callers compare with errors.Is.
var (
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
	ErrMissingToken       = errors.New("missing session token")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrExpired            = errors.New("session expired")
)

// Profile and resource outcomes.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrNotFound                = errors.New("not found")
	ErrCurrentPasswordRequired = errors.New("current password is required")
	ErrNoChanges               = errors.New("no changes were made")
	ErrEmptyConversation       = errors.New("no messages supplied")
	ErrUpstreamUnavailable     = errors.New("language model unavailable")
)
