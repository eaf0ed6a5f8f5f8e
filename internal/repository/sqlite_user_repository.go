package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/chat-service/internal/domain"
)

type sqliteUserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteUserRepository returns a UserRepository over an embedded database. Ids are
// generated here since SQLite has no uuid default.
func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (r *sqliteUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=?`
	return r.fetchSingle(ctx, query, email)
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=?`
	return r.fetchSingle(ctx, query, id)
}

func (r *sqliteUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapSQLiteError(err)
	}
	return &user, nil
}

func (r *sqliteUserRepository) Insert(ctx context.Context, user *domain.User) (string, error) {
	const query = `
        INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := r.now()
	if _, err := r.db.ExecContext(ctx, query,
		id,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		now,
		now,
	); err != nil {
		return "", mapSQLiteError(err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

func (r *sqliteUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=?, updated_at=? WHERE id=?`
	return r.execOne(ctx, query, passwordHash, r.now(), id)
}

func (r *sqliteUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	const query = `
        UPDATE users SET name=?, password_hash=COALESCE(?, password_hash), updated_at=?
        WHERE id=?`
	return r.execOne(ctx, query, update.Name, update.NewPasswordHash, r.now(), id)
}

func (r *sqliteUserRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	const query = `UPDATE users SET is_admin=?, updated_at=? WHERE email=?`
	return r.execOne(ctx, query, isAdmin, r.now(), email)
}

func (r *sqliteUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	return execAffectingOne(ctx, r.db, query, args...)
}

// execAffectingOne runs a write and reports domain.ErrNotFound when no row matched.
func execAffectingOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
