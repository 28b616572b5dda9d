package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/service"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is the wire form of one message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}

// ConversationResponse is one channel with its messages.
type ConversationResponse struct {
	ID       string                  `json:"id"`
	TicketID string                  `json:"ticket_id"`
	Type     domain.ConversationType `json:"type"`
	Messages []MessageResponse       `json:"messages"`
}

// FullConversationResponse is every channel the caller may see.
type FullConversationResponse struct {
	TicketID      string                 `json:"ticket_id"`
	Conversations []ConversationResponse `json:"conversations"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(message *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		UserID:         message.UserID,
		Content:        message.Content,
		SentAt:         message.SentAt,
	}
}

// NewMessageResponses maps a message slice.
func NewMessageResponses(messages []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}

// NewFullConversationResponse maps the service aggregate.
func NewFullConversationResponse(full *service.FullConversation) FullConversationResponse {
	conversations := make([]ConversationResponse, 0, len(full.Threads))
	for _, thread := range full.Threads {
		conversations = append(conversations, ConversationResponse{
			ID:       thread.Conversation.ID,
			TicketID: thread.Conversation.TicketID,
			Type:     thread.Conversation.Type,
			Messages: NewMessageResponses(thread.Messages),
		})
	}
	return FullConversationResponse{
		TicketID:      full.TicketID,
		Conversations: conversations,
	}
}
