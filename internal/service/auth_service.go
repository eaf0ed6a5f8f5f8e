package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
)

// PasswordHasher hashes and verifies passwords. CompareDecoy performs a throwaway comparison of
// the same cost as Compare.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, plain string) bool
	CompareDecoy(plain string)
}

// AuthService owns credential registration, password verification and session tokens.
// It never reads or writes cookies.
type AuthService struct {
	users      repository.UserRepository
	hasher     PasswordHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service. Hasher and Clock are
// optional.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     PasswordHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewAuthService builds the service. The signing secret is read once from cfg.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	hasher := deps.Hasher
	if hasher == nil {
		h, err := auth.NewHasher(cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("init password hasher: %w", err)
		}
		hasher = h
	}

	var opts []auth.TokenOption
	if deps.Clock != nil {
		opts = append(opts, auth.WithClock(deps.Clock))
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:      deps.UserRepo,
		hasher:     hasher,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL(), opts...),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}, nil
}

// RegisterCredential stores a new credential and returns its public identity.
func (s *AuthService) RegisterCredential(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         displayName,
		Email:        email,
		PasswordHash: hash,
	}
	id, err := s.users.Insert(ctx, user)
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return nil, domain.ErrDuplicateEmail
	case err != nil:
		s.logger.Error("credential insert failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	case id == "":
		return nil, domain.ErrStoreUnavailable
	}
	user.ID = id

	identity := user.Identity()
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, id, events.UserRegisteredPayload{DisplayName: displayName}))
	return &identity, nil
}

// Authenticate verifies a password. Unknown email and wrong password are indistinguishable to
// the caller, both in result and in bcrypt work performed.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.CompareDecoy(password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	identity := user.Identity()
	return &identity, nil
}

// IssueToken signs a session token for identity. It performs no I/O.
func (s *AuthService) IssueToken(identity domain.Identity) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(identity)
}

// VerifyToken validates a session token and returns the identity it carries.
func (s *AuthService) VerifyToken(token string) (*domain.Identity, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	identity := claims.User
	return &identity, nil
}

// Revoke is a no-op: tokens are stateless, so logging out only clears the cookie and an issued
// token stays valid until it expires.
func (s *AuthService) Revoke(_ context.Context, _ string) error {
	return nil
}

// SessionTTL reports how long issued tokens stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokenMgr.TTL()
}

// SetAdmin toggles the admin flag of the account with email.
func (s *AuthService) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	return s.users.SetAdmin(ctx, email, isAdmin)
}
