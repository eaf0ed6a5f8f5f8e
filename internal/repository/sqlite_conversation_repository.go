package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/chat-service/internal/domain"
)

type sqliteConversationRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteConversationRepository returns a ConversationRepository over an embedded database.
func NewSQLiteConversationRepository(db *sql.DB) ConversationRepository {
	return &sqliteConversationRepository{db: db, now: utcNow}
}

func (r *sqliteConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	const query = `
        INSERT INTO conversations (id, user_id, message, reply, created_at)
        VALUES (?, ?, ?, ?, ?)`

	id := uuid.NewString()
	createdAt := conv.CreatedAt.UTC()
	if conv.CreatedAt.IsZero() {
		createdAt = r.now()
	}
	if _, err := r.db.ExecContext(ctx, query, id, conv.UserID, conv.Message, conv.Reply, createdAt); err != nil {
		return mapSQLiteError(err)
	}
	conv.ID = id
	conv.CreatedAt = createdAt
	return nil
}

func (r *sqliteConversationRepository) SetReply(ctx context.Context, userID, id, reply string) error {
	const query = `UPDATE conversations SET reply=? WHERE id=? AND user_id=?`
	return execAffectingOne(ctx, r.db, query, reply, id, userID)
}

func (r *sqliteConversationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	query := `
        SELECT id, user_id, message, reply, created_at
        FROM conversations WHERE user_id=?
        ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Message, &conv.Reply, &conv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, conv)
	}
	return result, rows.Err()
}

func (r *sqliteConversationRepository) GetForUser(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	const query = `
        SELECT id, user_id, message, reply, created_at
        FROM conversations WHERE id=? AND user_id=?`
	var conv domain.Conversation
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Message,
		&conv.Reply,
		&conv.CreatedAt,
	); err != nil {
		return nil, mapSQLiteError(err)
	}
	return &conv, nil
}

func (r *sqliteConversationRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM conversations WHERE id=? AND user_id=?`
	return execAffectingOne(ctx, r.db, query, id, userID)
}

func (r *sqliteConversationRepository) CountByUser(ctx context.Context, userID string) (ConversationCounts, error) {
	const query = `
        SELECT COUNT(*), COALESCE(SUM(CASE WHEN reply <> '' THEN 1 ELSE 0 END), 0)
        FROM conversations WHERE user_id=?`
	var counts ConversationCounts
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&counts.Conversations, &counts.Replies)
	return counts, err
}
