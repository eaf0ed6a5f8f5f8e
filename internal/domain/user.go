package domain

import "time"

// User is the credential record owned by the store. PasswordHash never leaves the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the public-safe subset of the record.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, DisplayName: u.Name, Email: u.Email}
}

// ProfileUpdate enumerates the fields a user may change on their own record.
// A nil NewPasswordHash leaves the stored hash untouched.
type ProfileUpdate struct {
	Name            string
	NewPasswordHash *string
}
