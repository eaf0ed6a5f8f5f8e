package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/service"
)

// AnalyticsHandler records usage events and serves the admin summary.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Record handles POST /api/analytics.
func (h *AnalyticsHandler) Record(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}

	var req dto.AnalyticsEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.analytics.Record(c.UserContext(), identity.ID, req.Event, req.Data); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.SuccessResponse{Success: true})
}

// Summary handles GET /api/analytics. Admin only.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(dto.AnalyticsResponse{Analytics: summary})
}
