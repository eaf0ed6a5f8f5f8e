package domain

import "time"

// Identity is the minimal user data embedded in a session token.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
}

// Session describes a freshly issued token and when it stops being accepted.
type Session struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}
