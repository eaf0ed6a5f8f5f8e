package domain

import "time"

// AnalyticsEvent is a single client or server side usage event.
type AnalyticsEvent struct {
	ID        string
	UserID    string
	Event     string
	Data      map[string]any
	CreatedAt time.Time
}

// EventSummary aggregates events of one name.
type EventSummary struct {
	Event       string `json:"event"`
	Count       int64  `json:"count"`
	UniqueUsers int64  `json:"unique_users"`
}
