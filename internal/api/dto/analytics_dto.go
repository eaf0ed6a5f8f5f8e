package dto

import "github.com/spec-kit/chat-service/internal/domain"

// AnalyticsEventRequest records a client-side usage event.
type AnalyticsEventRequest struct {
	Event string         `json:"event" validate:"required,max=100"`
	Data  map[string]any `json:"data"`
}

// AnalyticsResponse is the admin summary.
type AnalyticsResponse struct {
	Analytics []domain.EventSummary `json:"analytics"`
}
