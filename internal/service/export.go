package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

// Export formats.
const (
	ExportText     = "txt"
	ExportJSON     = "json"
	ExportMarkdown = "md"
)

// Export is a downloadable rendering of a user's history.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

type jsonExport struct {
	ExportDate string               `json:"exportDate"`
	Messages   []domain.ChatMessage `json:"messages"`
}

// Export renders the user's history in format.
func (s *ConversationService) Export(ctx context.Context, userID, format string) (*Export, error) {
	switch format {
	case ExportText, ExportJSON, ExportMarkdown:
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}

	messages, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := &Export{Filename: fmt.Sprintf("chat-export-%s.%s", now.Format(time.DateOnly), format)}

	switch format {
	case ExportText:
		out.ContentType = "text/plain; charset=utf-8"
		out.Body = []byte(renderText(messages))
	case ExportJSON:
		body, err := json.MarshalIndent(jsonExport{ExportDate: now.Format(time.RFC3339), Messages: messages}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		out.ContentType = "application/json"
		out.Body = body
	case ExportMarkdown:
		out.ContentType = "text/markdown; charset=utf-8"
		out.Body = []byte(renderMarkdown(messages, now))
	}
	return out, nil
}

func speaker(role domain.ChatRole) string {
	if role == domain.ChatRoleUser {
		return "You"
	}
	return "AI"
}

func renderText(messages []domain.ChatMessage) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, speaker(msg.Role)+": "+msg.Content)
	}
	return strings.Join(parts, "\n\n")
}

func renderMarkdown(messages []domain.ChatMessage, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Chat Export\n\n")
	fmt.Fprintf(&sb, "_Exported %s_\n", now.Format(time.RFC3339))
	for _, msg := range messages {
		fmt.Fprintf(&sb, "\n### %s\n\n%s\n", speaker(msg.Role), msg.Content)
	}
	return sb.String()
}
