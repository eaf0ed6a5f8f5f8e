package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spec-kit/chat-service/internal/domain"
)

const pgUniqueViolation = "23505"

// mapPgError translates pgx failures into domain sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return err
}

// mapSQLiteError translates database/sql and sqlite failures into domain sentinels. The
// driver reports extended result codes, so a unique violation is matched on its code.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return domain.ErrDuplicateEmail
	}
	return err
}

// validID reports whether id can address a row; Postgres rejects malformed uuids with a
// type error rather than an empty result.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
