package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/events"
)

// publish hands event to the dispatcher; handler failures are logged, never returned.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
