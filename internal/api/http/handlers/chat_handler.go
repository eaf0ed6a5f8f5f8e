package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/service"
)

// ChatHandler relays the conversation to the language model.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send handles POST /api/chat.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return mapError(err)
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Messages) == 0 {
		return mapError(domain.ErrEmptyConversation)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.chat.Send(c.UserContext(), identity.ID, req.History())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(dto.ChatResponse{Reply: result.Reply, ConversationID: result.ConversationID})
}
