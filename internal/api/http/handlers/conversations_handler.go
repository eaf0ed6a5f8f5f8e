package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/service"
)

// ConversationsHandler serves the caller's stored conversations.
type ConversationsHandler struct {
	conversations *service.ConversationService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversations *service.ConversationService) *ConversationsHandler {
	return &ConversationsHandler{conversations: conversations}
}

// List handles GET /api/conversations.
func (h *ConversationsHandler) List(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}
	items, err := h.conversations.List(c.UserContext(), identity.ID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(dto.ConversationListResponse{Conversations: items})
}

// Get handles GET /api/conversations/:id.
func (h *ConversationsHandler) Get(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}
	conv, err := h.conversations.Get(c.UserContext(), identity.ID, c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(dto.NewConversationResponse(conv))
}

// Delete handles DELETE /api/conversations/:id.
func (h *ConversationsHandler) Delete(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}
	if err := h.conversations.Delete(c.UserContext(), identity.ID, c.Params("id")); err != nil {
		return mapError(err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Export handles GET /api/conversations/export as a file download.
func (h *ConversationsHandler) Export(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}

	var query dto.ExportQuery
	if err := c.QueryParser(&query); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid query")
	}
	if err := dto.Validate(query); err != nil {
		return err
	}
	if query.Format == "" {
		query.Format = service.ExportText
	}

	export, err := h.conversations.Export(c.UserContext(), identity.ID, query.Format)
	if err != nil {
		return mapError(err)
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	return c.Send(export.Body)
}
