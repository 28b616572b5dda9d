package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// TicketService is the ticket lifecycle engine: creation, status transitions,
// assignment, priority/category changes, and the append-only history trail.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	gate       *authz.Gate
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	Gate        *authz.Gate
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CategoryID  int64
	PriorityID  domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		gate:       deps.Gate,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create opens a new ticket for the actor, writes the initial history entry
// and notifies the owner.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" {
		return nil, apperrors.NewValidationError("title and description are required")
	}
	if input.CategoryID == 0 {
		return nil, apperrors.NewValidationError("category_id is required")
	}
	if !input.PriorityID.IsValid() {
		return nil, apperrors.NewValidationError("priority_id must be 1 (Low), 2 (Medium) or 3 (High)")
	}

	ticket := &domain.Ticket{
		UserID:      actor.ID,
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Priority:    input.PriorityID,
		Status:      domain.StatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		Status:      statusRef(domain.StatusOpen),
		Description: "Ticket created",
	})
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			OwnerID:  ticket.UserID,
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Assign hands a ticket to an agent and moves it to Assigned.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, agentID string) (*domain.Ticket, error) {
	ticket, err := s.fetchForUpdate(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("assignee must be an existing agent")
		}
		return nil, apperrors.MapError(err)
	}
	if !agent.IsAgentOrAdmin() {
		return nil, apperrors.NewValidationError("assignee must be an active agent or administrator")
	}

	if err := s.tickets.UpdateStatus(ctx, ticket.ID, domain.StatusAssigned); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Status = domain.StatusAssigned

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:       ticket.ID,
		Status:         statusRef(domain.StatusAssigned),
		AssignedUserID: &agent.ID,
		Description:    "Ticket assigned to agent",
	})
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload: events.TicketAssignedPayload{
			AgentID:     agent.ID,
			Title:       ticket.Title,
			Description: ticket.Description,
			Priority:    ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateStatus moves a ticket to a new status, records it and notifies the
// owner with old and new status.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, description string) (*domain.Ticket, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("status must be between 1 and 7")
	}
	ticket, err := s.fetchForUpdate(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, ticket, newStatus, description)
}

// UpdatePriority changes the priority header field. The history entry carries
// no status: a priority change implies no status transition.
func (s *TicketService) UpdatePriority(ctx context.Context, actor *domain.User, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !newPriority.IsValid() {
		return nil, apperrors.NewValidationError("priority must be 1 (Low), 2 (Medium) or 3 (High)")
	}
	ticket, err := s.fetchForUpdate(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	if err := s.tickets.UpdatePriority(ctx, ticket.ID, newPriority); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Priority = newPriority

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		Description: fmt.Sprintf("Priority changed from %s to %s", oldPriority.Name(), newPriority.Name()),
	})
	return ticket, nil
}

// UpdateCategory changes the category header field. Every user-visible change
// must be auditable, so this writes a history entry like the other mutators.
func (s *TicketService) UpdateCategory(ctx context.Context, actor *domain.User, ticketID string, newCategoryID int64) (*domain.Ticket, error) {
	if newCategoryID == 0 {
		return nil, apperrors.NewValidationError("category_id is required")
	}
	ticket, err := s.fetchForUpdate(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateCategory(ctx, ticket.ID, newCategoryID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.CategoryID = newCategoryID

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		Description: fmt.Sprintf("Category changed to %d", newCategoryID),
	})
	return ticket, nil
}

// Return lets the owning user send a ticket back as Returned with a reason.
func (s *TicketService) Return(ctx context.Context, actor *domain.User, ticketID, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason is required")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionReturn, authz.ResourceTicket, ticket); err != nil {
		return nil, apperrors.NewForbidden("only the ticket owner may return it")
	}
	return s.transition(ctx, actor, ticket, domain.StatusReturned, reason)
}

// GetByID returns a ticket visible to the actor.
func (s *TicketService) GetByID(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionView, authz.ResourceTicket, ticket); err != nil {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// GetHistory returns the audit trail newest-first.
func (s *TicketService) GetHistory(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.GetByID(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListForUser returns the actor's own tickets, newest-first.
func (s *TicketService) ListForUser(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{UserID: &actor.ID}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAll returns tickets matching the optional filters, staff only.
func (s *TicketService) ListAll(ctx context.Context, actor *domain.User, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if !actor.IsAgentOrAdmin() {
		return nil, apperrors.NewForbidden("agent or administrator role required")
	}
	filter.UserID = nil
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Stats returns aggregate counts: global for staff, scoped to the actor's
// own tickets otherwise.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*repository.TicketStats, error) {
	var userID *string
	if !actor.IsAgentOrAdmin() {
		userID = &actor.ID
	}
	stats, err := s.tickets.Stats(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// transition applies a validated status change: header update, history entry,
// owner notification carrying old and new status.
func (s *TicketService) transition(ctx context.Context, actor *domain.User, ticket *domain.Ticket, newStatus domain.TicketStatus, description string) (*domain.Ticket, error) {
	if !domain.CanTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status.Name(), newStatus.Name()))
	}
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Status = newStatus

	if description == "" {
		description = "Status updated"
	}
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		Status:      statusRef(newStatus),
		Description: description,
	})
	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OwnerID:   ticket.UserID,
			Title:     ticket.Title,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   description,
		},
	})
	return ticket, nil
}

// fetchForUpdate loads a ticket for a staff-only mutation.
func (s *TicketService) fetchForUpdate(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionUpdate, authz.ResourceTicket, ticket); err != nil {
		return nil, apperrors.NewForbidden("agent or administrator role required")
	}
	return ticket, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// recordHistory appends an audit entry. The trail is best-effort relative to
// the header write: a failed insert is logged and swallowed, never rolled
// back into the caller's operation.
func (s *TicketService) recordHistory(ctx context.Context, entry *domain.TicketHistory) {
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write ticket history entry",
			zap.String("ticket_id", entry.TicketID),
			zap.Error(err),
		)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, actor *domain.User, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.ID, Role: actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func statusRef(status domain.TicketStatus) *domain.TicketStatus {
	return &status
}
