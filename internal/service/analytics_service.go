package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/repository"
)

// AnalyticsService records usage events and summarises them for admins.
type AnalyticsService struct {
	events repository.AnalyticsRepository
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(events repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{events: events}
}

// Record stores one event for userID.
func (s *AnalyticsService) Record(ctx context.Context, userID, event string, data map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	return s.events.Create(ctx, &domain.AnalyticsEvent{UserID: userID, Event: event, Data: data})
}

// Summary aggregates all events by name.
func (s *AnalyticsService) Summary(ctx context.Context) ([]domain.EventSummary, error) {
	summary, err := s.events.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []domain.EventSummary{}
	}
	return summary, nil
}
