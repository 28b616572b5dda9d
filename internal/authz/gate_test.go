package authz

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

var (
	owner = &domain.User{ID: "u-owner", Role: domain.RoleUser, Active: true}
	other = &domain.User{ID: "u-other", Role: domain.RoleUser, Active: true}
	agent = &domain.User{ID: "u-agent", Role: domain.RoleAgent, Active: true}
	admin = &domain.User{ID: "u-admin", Role: domain.RoleAdministrator, Active: true}
)

func TestGateNilActor(t *testing.T) {
	g := NewDefaultGate()
	if err := g.Authorize(context.Background(), nil, ActionView, ResourceTicket, &domain.Ticket{}); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGateMissingPolicy(t *testing.T) {
	g := NewGate()
	if err := g.Authorize(context.Background(), admin, ActionView, "unknown", nil); err != ErrNoPolicyDefined {
		t.Fatalf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestTicketPolicy(t *testing.T) {
	g := NewDefaultGate()
	ticket := &domain.Ticket{ID: "t1", UserID: owner.ID}

	cases := []struct {
		name   string
		actor  *domain.User
		action Action
		want   bool
	}{
		{"owner views own ticket", owner, ActionView, true},
		{"stranger cannot view", other, ActionView, false},
		{"agent views any ticket", agent, ActionView, true},
		{"owner cannot update", owner, ActionUpdate, false},
		{"agent updates", agent, ActionUpdate, true},
		{"admin updates", admin, ActionUpdate, true},
		{"owner returns", owner, ActionReturn, true},
		{"agent cannot return", agent, ActionReturn, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Can(context.Background(), tc.actor, tc.action, ResourceTicket, ticket); got != tc.want {
				t.Errorf("Can() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConversationPolicy(t *testing.T) {
	g := NewDefaultGate()
	global := ConversationResource{Type: domain.ConversationGlobal, TicketOwnerID: owner.ID}
	internal := ConversationResource{Type: domain.ConversationAgentOnly, TicketOwnerID: owner.ID}

	cases := []struct {
		name     string
		actor    *domain.User
		resource ConversationResource
		want     bool
	}{
		{"owner writes global", owner, global, true},
		{"owner cannot write internal", owner, internal, false},
		{"stranger cannot write global", other, global, false},
		{"agent writes global", agent, global, true},
		{"agent writes internal", agent, internal, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Can(context.Background(), tc.actor, ActionWrite, ResourceConversation, tc.resource); got != tc.want {
				t.Errorf("Can() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMessagePolicy(t *testing.T) {
	g := NewDefaultGate()
	message := &domain.Message{ID: "m1", UserID: owner.ID}

	if !g.Can(context.Background(), owner, ActionDelete, ResourceMessage, message) {
		t.Error("author should delete own message")
	}
	if !g.Can(context.Background(), admin, ActionDelete, ResourceMessage, message) {
		t.Error("administrator should delete any message")
	}
	if g.Can(context.Background(), agent, ActionDelete, ResourceMessage, message) {
		t.Error("non-author agent should not delete")
	}
	if g.Can(context.Background(), other, ActionDelete, ResourceMessage, message) {
		t.Error("stranger should not delete")
	}
}

func TestCategoryPolicy(t *testing.T) {
	g := NewDefaultGate()
	if !g.Can(context.Background(), other, ActionView, ResourceCategory, nil) {
		t.Error("any authenticated user should read categories")
	}
	if g.Can(context.Background(), agent, ActionManage, ResourceCategory, nil) {
		t.Error("agent should not manage categories")
	}
	if !g.Can(context.Background(), admin, ActionManage, ResourceCategory, nil) {
		t.Error("administrator should manage categories")
	}
}

func TestUserPolicy(t *testing.T) {
	g := NewDefaultGate()
	if !g.Can(context.Background(), owner, ActionView, ResourceUser, owner) {
		t.Error("self lookup should be allowed")
	}
	if g.Can(context.Background(), owner, ActionView, ResourceUser, other) {
		t.Error("non-admin should not view other accounts")
	}
	if !g.Can(context.Background(), admin, ActionManage, ResourceUser, other) {
		t.Error("administrator should manage accounts")
	}
	inactiveAdmin := &domain.User{ID: "u-x", Role: domain.RoleAdministrator, Active: false}
	if g.Can(context.Background(), inactiveAdmin, ActionManage, ResourceUser, other) {
		t.Error("inactive administrator should be denied")
	}
}
