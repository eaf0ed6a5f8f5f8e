package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/chat-service/internal/domain"
)

// AnalyticsRepository stores usage events and aggregates them per event name.
type AnalyticsRepository interface {
	Create(ctx context.Context, event *domain.AnalyticsEvent) error
	Summarize(ctx context.Context) ([]domain.EventSummary, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository instantiates the Postgres repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) Create(ctx context.Context, event *domain.AnalyticsEvent) error {
	data := event.Data
	if data == nil {
		data = map[string]any{}
	}
	const query = `
        INSERT INTO analytics_events (user_id, event, data)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return mapPgError(r.pool.QueryRow(ctx, query,
		event.UserID,
		event.Event,
		data,
	).Scan(&event.ID, &event.CreatedAt))
}

func (r *analyticsRepository) Summarize(ctx context.Context) ([]domain.EventSummary, error) {
	const query = `
        SELECT event, COUNT(*), COUNT(DISTINCT user_id)
        FROM analytics_events
        GROUP BY event
        ORDER BY event`
	rows, err := r.pool.Query(ctx, query)
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
