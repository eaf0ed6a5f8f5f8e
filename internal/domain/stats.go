package domain

// DashboardStats is the per-user dashboard payload.
type DashboardStats struct {
	TotalConversations             int64                `json:"total_conversations"`
	TotalMessages                  int64                `json:"total_messages"`
	AverageMessagesPerConversation float64              `json:"average_messages_per_conversation"`
	RecentConversations            []RecentConversation `json:"recent_conversations"`
}

// RecentConversation is a dashboard row.
type RecentConversation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	MessageCount int    `json:"message_count"`
}
