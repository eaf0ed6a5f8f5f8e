package domain

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the history sent by the client.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Conversation stores a user prompt and the model's reply.
type Conversation struct {
	ID        string
	UserID    string
	Message   string
	Reply     string
	CreatedAt time.Time
}

// ConversationSummary is the list view of a conversation.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}
