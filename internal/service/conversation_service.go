package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
)

const titleLength = 30

// ConversationService reads, deletes and exports a user's history.
type ConversationService struct {
	conversations repository.ConversationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
}

// NewConversationService builds the service.
func NewConversationService(conversations repository.ConversationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		dispatcher:    dispatcher,
		logger:        logger,
		now:           time.Now,
	}
}

// List returns the user's conversations newest first, grouped by calendar day (UTC) and
// flattened back into one slice.
func (s *ConversationService) List(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	convs, err := s.conversations.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	var days []string
	byDay := make(map[string][]domain.ConversationSummary)
	for _, conv := range convs {
		day := conv.CreatedAt.UTC().Format(time.DateOnly)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], domain.ConversationSummary{
			ID:        conv.ID,
			Title:     truncateRunes(conv.Message, titleLength),
			Preview:   conv.Message,
			CreatedAt: conv.CreatedAt,
		})
	}

	result := make([]domain.ConversationSummary, 0, len(convs))
	for _, day := range days {
		result = append(result, byDay[day]...)
	}
	return result, nil
}

// Get returns one conversation owned by userID.
func (s *ConversationService) Get(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	return s.conversations.GetForUser(ctx, userID, id)
}

// Delete removes one conversation owned by userID.
func (s *ConversationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.conversations.DeleteForUser(ctx, userID, id); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventConversationDeleted, userID, events.ConversationDeletedPayload{ConversationID: id}))
	return nil
}

// History returns the stored exchanges as chat messages, oldest first.
func (s *ConversationService) History(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	convs, err := s.conversations.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChatMessage, 0, len(convs)*2)
	for i := len(convs) - 1; i >= 0; i-- {
		messages = append(messages, domain.ChatMessage{Role: domain.ChatRoleUser, Content: convs[i].Message})
		if convs[i].Reply != "" {
			messages = append(messages, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: convs[i].Reply})
		}
	}
	return messages, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
