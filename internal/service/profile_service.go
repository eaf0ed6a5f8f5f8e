package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/repository"
)

// ProfileService lets a user change their own display name and password.
type ProfileService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

// NewProfileService builds the service.
func NewProfileService(users repository.UserRepository, hasher PasswordHasher) *ProfileService {
	return &ProfileService{users: users, hasher: hasher}
}

// Update applies a profile change and returns the refreshed identity. Setting a new password
// requires the current one.
func (s *ProfileService) Update(ctx context.Context, userID, name, currentPassword, newPassword string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := domain.ProfileUpdate{Name: name}
	if newPassword != "" {
		if len(newPassword) > auth.MaxPasswordBytes {
			return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidInput)
		}
		if currentPassword == "" {
			return nil, domain.ErrCurrentPasswordRequired
		}
		if !s.hasher.Compare(user.PasswordHash, currentPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.NewPasswordHash = &hash
	}

	if update.NewPasswordHash == nil && update.Name == user.Name {
		return nil, domain.ErrNoChanges
	}

	if err := s.write(ctx, user, update); err != nil {
		return nil, err
	}

	user.Name = update.Name
	identity := user.Identity()
	return &identity, nil
}

// write stores a password-only change as a credential update and anything else as a
// profile update.
func (s *ProfileService) write(ctx context.Context, user *domain.User, update domain.ProfileUpdate) error {
	if update.Name == user.Name && update.NewPasswordHash != nil {
		return s.users.UpdatePassword(ctx, user.ID, *update.NewPasswordHash)
	}
	return s.users.UpdateProfile(ctx, user.ID, update)
}
