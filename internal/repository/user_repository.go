package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/chat-service/internal/domain"
)

// UserRepository is the credential store: it owns password hashes and identity attributes
// keyed by a unique email.
type UserRepository interface {
	// FindByEmail returns domain.ErrNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert stores a new record and returns its id. A taken email yields domain.ErrDuplicateEmail.
	Insert(ctx context.Context, user *domain.User) (string, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at`

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &user, nil
}

func (r *userRepository) Insert(ctx context.Context, user *domain.User) (string, error) {
	const query = `
        INSERT INTO users (name, email, password_hash, is_admin)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return "", mapPgError(err)
	}
	return user.ID, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `
        UPDATE users SET name=$1, password_hash=COALESCE($2, password_hash), updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, update.Name, update.NewPasswordHash, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	const query = `UPDATE users SET is_admin=$1, updated_at=NOW() WHERE email=$2`
	cmd, err := r.pool.Exec(ctx, query, isAdmin, email)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
