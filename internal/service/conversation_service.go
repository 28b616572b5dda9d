package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// ConversationService manages the two message channels of a ticket: the
// Global channel shared with the owner and the AgentOnly channel for
// internal staff notes.
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	tickets       repository.TicketRepository
	gate          *authz.Gate
	dispatcher    events.Dispatcher
}

// ConversationDependencies bundles collaborators for the conversation service.
type ConversationDependencies struct {
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	TicketRepo       repository.TicketRepository
	Gate             *authz.Gate
	Dispatcher       events.Dispatcher
}

// ConversationThread is one channel with its messages, oldest first.
type ConversationThread struct {
	Conversation domain.Conversation
	Messages     []domain.Message
}

// FullConversation is every channel of a ticket the caller may see.
type FullConversation struct {
	TicketID string
	Threads  []ConversationThread
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	return &ConversationService{
		conversations: deps.ConversationRepo,
		messages:      deps.MessageRepo,
		tickets:       deps.TicketRepo,
		gate:          deps.Gate,
		dispatcher:    deps.Dispatcher,
	}
}

// GetOrCreate returns the channel of the given type for a ticket, creating it
// lazily on first use. At most one channel per (ticket, type) pair exists.
func (s *ConversationService) GetOrCreate(ctx context.Context, actor *domain.User, ticketID string, convType domain.ConversationType) (*domain.Conversation, error) {
	if !convType.IsValid() {
		return nil, apperrors.NewValidationError("conversation type must be 1 (Global) or 2 (AgentOnly)")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionView, ticket, convType); err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, ticketID, convType)
}

// UserSendMessage posts an owner message into the Global channel.
func (s *ConversationService) UserSendMessage(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Message, error) {
	return s.send(ctx, actor, ticketID, domain.ConversationGlobal, content)
}

// AgentReply posts a staff message into the Global channel, visible to the
// ticket owner.
func (s *ConversationService) AgentReply(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Message, error) {
	if !actor.IsAgentOrAdmin() {
		return nil, apperrors.NewForbidden("agent or administrator role required")
	}
	return s.send(ctx, actor, ticketID, domain.ConversationGlobal, content)
}

// AgentAddInternalNote posts a staff-only note into the AgentOnly channel.
func (s *ConversationService) AgentAddInternalNote(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Message, error) {
	return s.send(ctx, actor, ticketID, domain.ConversationAgentOnly, content)
}

// GetFullConversation returns the ticket's channels with their messages.
// Staff see both channels; the owner sees the Global channel only.
func (s *ConversationService) GetFullConversation(ctx context.Context, actor *domain.User, ticketID string) (*FullConversation, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionView, ticket, domain.ConversationGlobal); err != nil {
		return nil, err
	}

	conversations, err := s.conversations.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	includeAgentNotes := actor.IsAgentOrAdmin()
	full := &FullConversation{TicketID: ticketID}
	for _, conv := range conversations {
		if conv.Type == domain.ConversationAgentOnly && !includeAgentNotes {
			continue
		}
		msgs, err := s.messages.ListByConversation(ctx, conv.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		full.Threads = append(full.Threads, ConversationThread{Conversation: conv, Messages: msgs})
	}
	return full, nil
}

// ListMessages returns one channel's messages oldest-first, participants only.
func (s *ConversationService) ListMessages(ctx context.Context, actor *domain.User, conversationID string) ([]domain.Message, error) {
	conv, ticket, err := s.fetchConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionView, ticket, conv.Type); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// DeleteMessage removes a message. Only its author or an administrator may.
func (s *ConversationService) DeleteMessage(ctx context.Context, actor *domain.User, messageID string) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message")
		}
		return apperrors.MapError(err)
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionDelete, authz.ResourceMessage, message); err != nil {
		return apperrors.NewForbidden("only the author or an administrator may delete a message")
	}
	if err := s.messages.Delete(ctx, message.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// send validates, authorizes and persists a message, then publishes the
// message event so the other side can be notified.
func (s *ConversationService) send(ctx context.Context, actor *domain.User, ticketID string, convType domain.ConversationType, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content cannot be empty")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionWrite, ticket, convType); err != nil {
		return nil, err
	}
	conv, err := s.getOrCreate(ctx, ticketID, convType)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conv.ID,
		UserID:         actor.ID,
		Content:        content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishMessageAdded(ctx, actor, ticket, convType, content)
	return message, nil
}

func (s *ConversationService) publishMessageAdded(ctx context.Context, actor *domain.User, ticket *domain.Ticket, convType domain.ConversationType, content string) {
	if s.dispatcher == nil {
		return
	}
	preview := content
	if len(preview) > 200 {
		preview = preview[:200]
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketMessageAdded,
		TicketID:  ticket.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.TicketMessageAddedPayload{
			OwnerID:          ticket.UserID,
			Title:            ticket.Title,
			AuthorID:         actor.ID,
			AuthorName:       actor.Name,
			AuthorIsStaff:    actor.IsAgentOrAdmin(),
			ConversationType: convType,
			Preview:          preview,
		},
	})
}

// getOrCreate races are resolved by re-reading: the unique index on
// (ticket_id, type) makes the second insert fail, and the winner is returned.
func (s *ConversationService) getOrCreate(ctx context.Context, ticketID string, convType domain.ConversationType) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByTicketAndType(ctx, ticketID, convType)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	created := &domain.Conversation{TicketID: ticketID, Type: convType}
	if err := s.conversations.Create(ctx, created); err == nil {
		return created, nil
	}
	conv, err = s.conversations.GetByTicketAndType(ctx, ticketID, convType)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return conv, nil
}

func (s *ConversationService) authorize(ctx context.Context, actor *domain.User, action authz.Action, ticket *domain.Ticket, convType domain.ConversationType) error {
	resource := authz.ConversationResource{Type: convType, TicketOwnerID: ticket.UserID}
	if err := s.gate.Authorize(ctx, actor, action, authz.ResourceConversation, resource); err != nil {
		return apperrors.NewForbidden("not a participant of this conversation")
	}
	return nil
}

func (s *ConversationService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *ConversationService) fetchConversation(ctx context.Context, conversationID string) (*domain.Conversation, *domain.Ticket, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("conversation")
		}
		return nil, nil, apperrors.MapError(err)
	}
	ticket, err := s.fetchTicket(ctx, conv.TicketID)
	if err != nil {
		return nil, nil, err
	}
	return conv, ticket, nil
}
