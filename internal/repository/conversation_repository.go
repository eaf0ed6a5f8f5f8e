package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/chat-service/internal/domain"
)

// ConversationCounts aggregates a user's stored exchanges.
type ConversationCounts struct {
	Conversations int64
	Replies       int64
}

// ConversationRepository persists prompts and model replies. Every read and write is scoped to
// the owning user; rows of other users behave as if absent.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	SetReply(ctx context.Context, userID, id, reply string) error
	// ListByUser returns newest first; limit <= 0 returns everything.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Conversation, error)
	GetForUser(ctx context.Context, userID, id string) (*domain.Conversation, error)
	DeleteForUser(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (ConversationCounts, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository instantiates the Postgres repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	const query = `
        INSERT INTO conversations (user_id, message, reply)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return mapPgError(r.pool.QueryRow(ctx, query,
		conv.UserID,
		conv.Message,
		conv.Reply,
	).Scan(&conv.ID, &conv.CreatedAt))
}

func (r *conversationRepository) SetReply(ctx context.Context, userID, id, reply string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `UPDATE conversations SET reply=$1 WHERE id=$2 AND user_id=$3`
	cmd, err := r.pool.Exec(ctx, query, reply, id, userID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	query := `
        SELECT id, user_id, message, reply, created_at
        FROM conversations WHERE user_id=$1
        ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
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

func (r *conversationRepository) GetForUser(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `
        SELECT id, user_id, message, reply, created_at
        FROM conversations WHERE id=$1 AND user_id=$2`
	var conv domain.Conversation
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Message,
		&conv.Reply,
		&conv.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &conv, nil
}

func (r *conversationRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `DELETE FROM conversations WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conversationRepository) CountByUser(ctx context.Context, userID string) (ConversationCounts, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE reply <> '')
        FROM conversations WHERE user_id=$1`
	var counts ConversationCounts
	err := r.pool.QueryRow(ctx, query, userID).Scan(&counts.Conversations, &counts.Replies)
	return counts, err
}
