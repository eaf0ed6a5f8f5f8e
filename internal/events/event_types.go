package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventMessageSent         EventType = "message_sent"
	EventMessageFailed       EventType = "message_failed"
	EventConversationDeleted EventType = "conversation_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, userID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	DisplayName string `json:"display_name"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	ConversationID string `json:"conversation_id"`
	MessageLength  int    `json:"message_length"`
	HistoryLength  int    `json:"history_length"`
}

// MessageFailedPayload is published when the prompt was stored but no reply came back.
type MessageFailedPayload struct {
	ConversationID string `json:"conversation_id"`
	MessageLength  int    `json:"message_length"`
	HistoryLength  int    `json:"history_length"`
}

// ConversationDeletedPayload payload.
type ConversationDeletedPayload struct {
	ConversationID string `json:"conversation_id"`
}
