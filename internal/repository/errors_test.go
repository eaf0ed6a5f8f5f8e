package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/domain"
)

func TestMapSQLiteError(t *testing.T) {
	plain := errors.New("UNIQUE constraint failed: users.email")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows", err: sql.ErrNoRows, want: domain.ErrNotFound},
		{name: "untyped error is passed through", err: plain, want: plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapSQLiteError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapSQLiteError_OnlyEmailUniquenessIsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t).DB
	users := NewSQLiteUserRepository(db)
	alice := insertUser(t, users, "a@x.com")

	_, err := users.Insert(ctx, &domain.User{Name: "Again", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		alice.ID, "Clash", "other@x.com", "h", false, now, now)
	require.Error(t, err)
	mapped := mapSQLiteError(err)
	assert.NotErrorIs(t, mapped, domain.ErrDuplicateEmail)
	assert.NotErrorIs(t, mapped, domain.ErrNotFound)
}
