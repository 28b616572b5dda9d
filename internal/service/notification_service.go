package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/notify"
	"github.com/spec-kit/helpdesk-api/internal/repository"
)

// NotificationService turns domain events into outbound emails. It is
// strictly best-effort: every failure is logged and swallowed, the
// triggering operation never observes delivery problems.
type NotificationService struct {
	users  repository.UserRepository
	mailer notify.Mailer
	logger *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	UserRepo repository.UserRepository
	Mailer   notify.Mailer
	Logger   *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		logger: deps.Logger,
	}
}

// Register subscribes the service to every ticket event it handles.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketAssigned, s.handleTicketAssigned)
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketMessageAdded, s.handleMessageAdded)
}

func (s *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	email, err := notify.TicketCreatedEmail(event.TicketID, payload.Title, payload.Priority.Name())
	if err != nil {
		s.logFailure(event, err)
		return nil
	}
	s.deliver(ctx, event, payload.OwnerID, email)
	return nil
}

func (s *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	email, err := notify.TicketAssignedEmail(event.TicketID, payload.Title, payload.Description, payload.Priority.Name())
	if err != nil {
		s.logFailure(event, err)
		return nil
	}
	s.deliver(ctx, event, payload.AgentID, email)
	return nil
}

func (s *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	email, err := notify.StatusChangedEmail(event.TicketID, payload.Title, payload.OldStatus.Name(), payload.NewStatus.Name())
	if err != nil {
		s.logFailure(event, err)
		return nil
	}
	s.deliver(ctx, event, payload.OwnerID, email)
	return nil
}

// handleMessageAdded notifies the ticket owner when a staff member writes in
// the Global channel. Internal notes and the owner's own messages are silent.
func (s *NotificationService) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		return nil
	}
	if payload.ConversationType != domain.ConversationGlobal {
		return nil
	}
	if !payload.AuthorIsStaff || payload.AuthorID == payload.OwnerID {
		return nil
	}
	email, err := notify.NewMessageEmail(payload.Title, payload.AuthorName, payload.Preview)
	if err != nil {
		s.logFailure(event, err)
		return nil
	}
	s.deliver(ctx, event, payload.OwnerID, email)
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, event events.Event, recipientID string, email *notify.Email) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		s.logFailure(event, err)
		return
	}
	if err := s.mailer.Send(ctx, recipient.Email, recipient.Name, email.Subject, email.HTMLBody); err != nil {
		s.logFailure(event, err)
		return
	}
	s.logger.Info("notification sent",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("recipient_id", recipientID),
	)
}

func (s *NotificationService) logFailure(event events.Event, err error) {
	s.logger.Error("notification delivery failed",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Error(err),
	)
}
