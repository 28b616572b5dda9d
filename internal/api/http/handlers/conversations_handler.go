package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/service"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// ConversationsHandler manages message channel endpoints.
type ConversationsHandler struct {
	service *service.ConversationService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversationService *service.ConversationService) *ConversationsHandler {
	return &ConversationsHandler{service: conversationService}
}

// SendMessage POST /tickets/:id/messages.
func (h *ConversationsHandler) SendMessage(c *fiber.Ctx) error {
	return h.post(c, h.service.UserSendMessage)
}

// Reply POST /tickets/:id/reply.
func (h *ConversationsHandler) Reply(c *fiber.Ctx) error {
	return h.post(c, h.service.AgentReply)
}

// AddNote POST /tickets/:id/notes.
func (h *ConversationsHandler) AddNote(c *fiber.Ctx) error {
	return h.post(c, h.service.AgentAddInternalNote)
}

// GetConversation GET /tickets/:id/conversation.
func (h *ConversationsHandler) GetConversation(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	full, err := h.service.GetFullConversation(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "conversation": dto.NewFullConversationResponse(full)})
}

// ListMessages GET /conversations/:id/messages.
func (h *ConversationsHandler) ListMessages(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	messages, err := h.service.ListMessages(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "messages": dto.NewMessageResponses(messages)})
}

// DeleteMessage DELETE /messages/:id.
func (h *ConversationsHandler) DeleteMessage(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteMessage(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

type sendFunc func(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Message, error)

func (h *ConversationsHandler) post(c *fiber.Ctx, send sendFunc) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	message, err := send(c.UserContext(), account, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message_sent": dto.NewMessageResponse(message)})
}
