package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/repository"
)

const recentConversationLimit = 5

// StatsCache stores computed dashboard statistics per user.
type StatsCache interface {
	Get(ctx context.Context, userID string) (*domain.DashboardStats, bool, error)
	Set(ctx context.Context, userID string, stats *domain.DashboardStats) error
	Invalidate(ctx context.Context, userID string) error
}

// StatsService computes the dashboard numbers, reading through a cache when one is set.
type StatsService struct {
	conversations repository.ConversationRepository
	cache         StatsCache
	logger        *zap.Logger
}

// NewStatsService builds the service. cache may be nil.
func NewStatsService(conversations repository.ConversationRepository, cache StatsCache, logger *zap.Logger) *StatsService {
	return &StatsService{conversations: conversations, cache: cache, logger: logger}
}

// Dashboard returns the user's statistics. Cache failures fall through to the store.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	if s.cache != nil {
		stats, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if ok {
			return stats, nil
		}
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, stats); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops cached statistics for the user.
func (s *StatsService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, userID)
}

func (s *StatsService) compute(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	counts, err := s.conversations.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.conversations.ListByUser(ctx, userID, recentConversationLimit)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		TotalConversations:  counts.Conversations,
		TotalMessages:       counts.Conversations + counts.Replies,
		RecentConversations: make([]domain.RecentConversation, 0, len(recent)),
	}
	if counts.Conversations > 0 {
		stats.AverageMessagesPerConversation = float64(stats.TotalMessages) / float64(counts.Conversations)
	}

	for _, conv := range recent {
		title := truncateRunes(conv.Message, titleLength)
		if title != conv.Message {
			title += "..."
		}
		messageCount := 1
		if conv.Reply != "" {
			messageCount++
		}
		stats.RecentConversations = append(stats.RecentConversations, domain.RecentConversation{
			ID:           conv.ID,
			Title:        title,
			Date:         conv.CreatedAt.UTC().Format(time.DateOnly),
			MessageCount: messageCount,
		})
	}
	return stats, nil
}
