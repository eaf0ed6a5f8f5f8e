package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/chat-service/internal/domain"
)

type sqliteAnalyticsRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteAnalyticsRepository returns an AnalyticsRepository over an embedded database.
// Event data is stored as a JSON document in a TEXT column.
func NewSQLiteAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &sqliteAnalyticsRepository{db: db, now: utcNow}
}

func (r *sqliteAnalyticsRepository) Create(ctx context.Context, event *domain.AnalyticsEvent) error {
	data := event.Data
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	const query = `
        INSERT INTO analytics_events (id, user_id, event, data, created_at)
        VALUES (?, ?, ?, ?, ?)`
	id := uuid.NewString()
	now := r.now()
	if _, err := r.db.ExecContext(ctx, query, id, event.UserID, event.Event, string(encoded), now); err != nil {
		return mapSQLiteError(err)
	}
	event.ID = id
	event.CreatedAt = now
	return nil
}

func (r *sqliteAnalyticsRepository) Summarize(ctx context.Context) ([]domain.EventSummary, error) {
	const query = `
        SELECT event, COUNT(*), COUNT(DISTINCT user_id)
        FROM analytics_events
        GROUP BY event
        ORDER BY event`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EventSummary
	for rows.Next() {
		var summary domain.EventSummary
		if err := rows.Scan(&summary.Event, &summary.Count, &summary.UniqueUsers); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}
