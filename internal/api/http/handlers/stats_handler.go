package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/service"
)

// StatsHandler serves dashboard statistics.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}
	stats, err := h.stats.Dashboard(c.UserContext(), identity.ID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(stats)
}
