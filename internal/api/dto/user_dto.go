package dto

import "time"

// SignupRequest is accepted as JSON by the API and as a form by the signup page.
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest is accepted as JSON by the API and as a form by the login page.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserResponse is the public view of the signed-in user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by signup, login and profile updates. The token is also set as
// the session cookie.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionResponse reports whether the caller is signed in.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// ProfileRequest changes the caller's display name and optionally the password.
type ProfileRequest struct {
	Name            string `json:"name" form:"name" validate:"required,max=100"`
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}
