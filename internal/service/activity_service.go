package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/events"
)

// ActivityService turns domain events into analytics records and keeps the stats cache fresh.
type ActivityService struct {
	dispatcher events.Dispatcher
	analytics  *AnalyticsService
	stats      *StatsService
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, analytics *AnalyticsService, stats *StatsService, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		analytics:  analytics,
		stats:      stats,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventMessageSent, a.handleMessageSent)
	a.dispatcher.Subscribe(events.EventMessageFailed, a.handleMessageFailed)
	a.dispatcher.Subscribe(events.EventConversationDeleted, a.handleConversationDeleted)
}

func (a *ActivityService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.UserID))
	return a.record(ctx, event, nil)
}

func (a *ActivityService) handleMessageSent(ctx context.Context, event events.Event) error {
	a.logger.Debug("MessageSent", zap.String("user_id", event.UserID))
	var data map[string]any
	if p, ok := event.Payload.(events.MessageSentPayload); ok {
		data = map[string]any{
			"conversation_id": p.ConversationID,
			"message_length":  p.MessageLength,
			"history_length":  p.HistoryLength,
		}
	}
	a.invalidateStats(ctx, event)
	return a.record(ctx, event, data)
}

// handleMessageFailed still drops cached stats: the prompt was stored without a reply.
func (a *ActivityService) handleMessageFailed(ctx context.Context, event events.Event) error {
	a.logger.Debug("MessageFailed", zap.String("user_id", event.UserID))
	var data map[string]any
	if p, ok := event.Payload.(events.MessageFailedPayload); ok {
		data = map[string]any{
			"conversation_id": p.ConversationID,
			"message_length":  p.MessageLength,
			"history_length":  p.HistoryLength,
		}
	}
	a.invalidateStats(ctx, event)
	return a.record(ctx, event, data)
}

func (a *ActivityService) handleConversationDeleted(ctx context.Context, event events.Event) error {
	a.logger.Debug("ConversationDeleted", zap.String("user_id", event.UserID))
	var data map[string]any
	if p, ok := event.Payload.(events.ConversationDeletedPayload); ok {
		data = map[string]any{"conversation_id": p.ConversationID}
	}
	a.invalidateStats(ctx, event)
	return a.record(ctx, event, data)
}

func (a *ActivityService) record(ctx context.Context, event events.Event, data map[string]any) error {
	if a.analytics == nil {
		return nil
	}
	return a.analytics.Record(ctx, event.UserID, string(event.Type), data)
}

func (a *ActivityService) invalidateStats(ctx context.Context, event events.Event) {
	if a.stats == nil {
		return
	}
	if err := a.stats.Invalidate(ctx, event.UserID); err != nil {
		a.logger.Warn("stats cache invalidation failed", zap.String("user_id", event.UserID), zap.Error(err))
	}
}
