package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(_ context.Context, toEmail, _, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("provider rejected")
	}
	m.sent = append(m.sent, sentEmail{to: toEmail, subject: subject, body: htmlBody})
	return nil
}

func newNotificationFixture(mailer *recordingMailer) (*NotificationService, events.Dispatcher) {
	svc := NewNotificationService(NotificationDependencies{
		UserRepo: newFakeUserRepo(testOwner, testAgent, testAdmin),
		Mailer:   mailer,
		Logger:   zap.NewNop(),
	})
	dispatcher := events.NewInMemoryDispatcher()
	svc.Register(dispatcher)
	return svc, dispatcher
}

func TestNotificationOnTicketCreated(t *testing.T) {
	mailer := &recordingMailer{}
	_, dispatcher := newNotificationFixture(mailer)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "ticket-1",
		Payload: events.TicketCreatedPayload{
			OwnerID:  testOwner.ID,
			Title:    "Printer broken",
			Priority: domain.PriorityHigh,
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	email := mailer.sent[0]
	if email.to != testOwner.Email {
		t.Errorf("recipient = %q, want owner", email.to)
	}
	if !strings.Contains(email.body, "Printer broken") || !strings.Contains(email.body, "High") {
		t.Errorf("body missing ticket fields: %q", email.subject)
	}
}

func TestNotificationOnStatusChange(t *testing.T) {
	mailer := &recordingMailer{}
	_, dispatcher := newNotificationFixture(mailer)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "ticket-1",
		Payload: events.TicketStatusChangedPayload{
			OwnerID:   testOwner.ID,
			Title:     "Printer broken",
			OldStatus: domain.StatusAssigned,
			NewStatus: domain.StatusResolved,
		},
	})
	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	body := mailer.sent[0].body
	if !strings.Contains(body, "Assigned") || !strings.Contains(body, "Resolved") {
		t.Error("status change email must carry old and new status names")
	}
}

func TestNotificationAssignedGoesToAgent(t *testing.T) {
	mailer := &recordingMailer{}
	_, dispatcher := newNotificationFixture(mailer)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: "ticket-1",
		Payload: events.TicketAssignedPayload{
			AgentID:  testAgent.ID,
			Title:    "Printer broken",
			Priority: domain.PriorityMedium,
		},
	})
	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	if mailer.sent[0].to != testAgent.Email {
		t.Errorf("recipient = %q, want agent", mailer.sent[0].to)
	}
}

func TestMessageNotificationRules(t *testing.T) {
	cases := []struct {
		name    string
		payload events.TicketMessageAddedPayload
		want    int
	}{
		{
			"staff reply in global notifies owner",
			events.TicketMessageAddedPayload{
				OwnerID: testOwner.ID, AuthorID: testAgent.ID, AuthorName: "Agent",
				AuthorIsStaff: true, ConversationType: domain.ConversationGlobal, Preview: "on it",
			},
			1,
		},
		{
			"internal note is silent",
			events.TicketMessageAddedPayload{
				OwnerID: testOwner.ID, AuthorID: testAgent.ID, AuthorName: "Agent",
				AuthorIsStaff: true, ConversationType: domain.ConversationAgentOnly, Preview: "note",
			},
			0,
		},
		{
			"owner's own message is silent",
			events.TicketMessageAddedPayload{
				OwnerID: testOwner.ID, AuthorID: testOwner.ID, AuthorName: "Owner",
				AuthorIsStaff: false, ConversationType: domain.ConversationGlobal, Preview: "hello",
			},
			0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &recordingMailer{}
			_, dispatcher := newNotificationFixture(mailer)
			_ = dispatcher.Publish(context.Background(), events.Event{
				Type:     events.EventTicketMessageAdded,
				TicketID: "ticket-1",
				Payload:  tc.payload,
			})
			if len(mailer.sent) != tc.want {
				t.Errorf("emails = %d, want %d", len(mailer.sent), tc.want)
			}
		})
	}
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	mailer := &recordingMailer{fail: true}
	_, dispatcher := newNotificationFixture(mailer)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "ticket-1",
		Payload: events.TicketCreatedPayload{
			OwnerID:  testOwner.ID,
			Title:    "Printer broken",
			Priority: domain.PriorityLow,
		},
	})
	if err != nil {
		t.Fatalf("delivery failure must not surface to the publisher: %v", err)
	}
}
