package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
)

// Completer produces a model reply for a chat history.
type Completer interface {
	Complete(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	ConversationID string
	Reply          string
}

// ChatService stores user prompts and fetches model replies.
type ChatService struct {
	conversations repository.ConversationRepository
	model         Completer
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewChatService builds the service.
func NewChatService(conversations repository.ConversationRepository, model Completer, dispatcher events.Dispatcher, logger *zap.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		model:         model,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Send records the latest user message, asks the model with the full history and stores the
// reply on the same conversation. The prompt stays stored even when the model fails.
func (s *ChatService) Send(ctx context.Context, userID string, history []domain.ChatMessage) (*ChatResult, error) {
	prompt, ok := lastUserMessage(history)
	if !ok {
		return nil, domain.ErrEmptyConversation
	}

	conv := &domain.Conversation{UserID: userID, Message: prompt}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("store conversation: %w", err)
	}

	reply, err := s.model.Complete(ctx, history)
	if err != nil {
		s.logger.Warn("completion failed", zap.String("conversation_id", conv.ID), zap.Error(err))
		// the request context may be the one that expired
		publish(context.WithoutCancel(ctx), s.dispatcher, s.logger, events.New(events.EventMessageFailed, userID, events.MessageFailedPayload{
			ConversationID: conv.ID,
			MessageLength:  len([]rune(prompt)),
			HistoryLength:  len(history),
		}))
		return nil, err
	}

	if err := s.conversations.SetReply(ctx, userID, conv.ID, reply); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventMessageSent, userID, events.MessageSentPayload{
		ConversationID: conv.ID,
		MessageLength:  len([]rune(prompt)),
		HistoryLength:  len(history),
	}))

	return &ChatResult{ConversationID: conv.ID, Reply: reply}, nil
}

func lastUserMessage(history []domain.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.ChatRoleUser && strings.TrimSpace(history[i].Content) != "" {
			return history[i].Content, true
		}
	}
	return "", false
}
