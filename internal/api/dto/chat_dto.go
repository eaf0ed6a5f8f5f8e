package dto

import (
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

// ChatMessage is one turn of the client-held history.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,max=20"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest carries the full history; the last user turn is the new prompt.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// History converts the request into domain messages.
func (r ChatRequest) History() []domain.ChatMessage {
	history := make([]domain.ChatMessage, 0, len(r.Messages))
	for _, m := range r.Messages {
		history = append(history, domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content})
	}
	return history
}

// ChatResponse is the model's reply and the stored conversation it belongs to.
type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

// ConversationListResponse wraps the list view.
type ConversationListResponse struct {
	Conversations []domain.ConversationSummary `json:"conversations"`
}

// ConversationDetail is a single stored exchange.
type ConversationDetail struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationResponse wraps a single conversation.
type ConversationResponse struct {
	Conversation ConversationDetail `json:"conversation"`
}

// NewConversationResponse maps a stored conversation to its response.
func NewConversationResponse(c *domain.Conversation) ConversationResponse {
	return ConversationResponse{Conversation: ConversationDetail{
		ID:        c.ID,
		Message:   c.Message,
		Reply:     c.Reply,
		CreatedAt: c.CreatedAt,
	}}
}

// ExportQuery selects the download format.
type ExportQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=txt json md"`
}

// SuccessResponse acknowledges a mutation without a body.
type SuccessResponse struct {
	Success bool `json:"success"`
}
