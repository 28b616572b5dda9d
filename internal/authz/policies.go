package authz

import (
	"context"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// Resource type names registered on the gate.
const (
	ResourceTicket       = "ticket"
	ResourceConversation = "conversation"
	ResourceMessage      = "message"
	ResourceAttachment   = "attachment"
	ResourceCategory     = "category"
	ResourceUser         = "user"
)

// TicketPolicy gates access to a ticket. The resource is *domain.Ticket.
type TicketPolicy struct{}

func (TicketPolicy) Can(_ context.Context, actor *domain.User, action Action, resource any) bool {
	ticket, ok := resource.(*domain.Ticket)
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		// owner, or any agent/administrator
		return ticket.UserID == actor.ID || actor.IsAgentOrAdmin()
	case ActionUpdate:
		// status, priority, category, assignment
		return actor.IsAgentOrAdmin()
	case ActionReturn:
		// owner-initiated reopen only
		return ticket.UserID == actor.ID && actor.Active
	default:
		return false
	}
}

// ConversationPolicy gates channel access. The resource is a
// ConversationResource carrying the channel type and the parent ticket owner.
type ConversationPolicy struct{}

// ConversationResource bundles what the policy needs to decide participation.
type ConversationResource struct {
	Type          domain.ConversationType
	TicketOwnerID string
}

func (ConversationPolicy) Can(_ context.Context, actor *domain.User, action Action, resource any) bool {
	conv, ok := resource.(ConversationResource)
	if !ok {
		return false
	}
	switch action {
	case ActionView, ActionWrite:
		if actor.IsAgentOrAdmin() {
			return true
		}
		// the owning user participates in the Global channel only
		return conv.Type == domain.ConversationGlobal && conv.TicketOwnerID == actor.ID && actor.Active
	default:
		return false
	}
}

// MessagePolicy gates message deletion. The resource is *domain.Message.
type MessagePolicy struct{}

func (MessagePolicy) Can(_ context.Context, actor *domain.User, action Action, resource any) bool {
	message, ok := resource.(*domain.Message)
	if !ok {
		return false
	}
	switch action {
	case ActionDelete:
		// only the author or an administrator
		return actor.IsAdmin() || (message.UserID == actor.ID && actor.Active)
	default:
		return false
	}
}

// AttachmentPolicy gates attachment operations; permission follows the
// parent ticket, so the resource is *domain.Ticket.
type AttachmentPolicy struct{}

func (AttachmentPolicy) Can(_ context.Context, actor *domain.User, action Action, resource any) bool {
	ticket, ok := resource.(*domain.Ticket)
	if !ok {
		return false
	}
	switch action {
	case ActionView, ActionWrite, ActionDelete:
		return (ticket.UserID == actor.ID && actor.Active) || actor.IsAgentOrAdmin()
	default:
		return false
	}
}

// CategoryPolicy gates reference-data writes.
type CategoryPolicy struct{}

func (CategoryPolicy) Can(_ context.Context, actor *domain.User, action Action, _ any) bool {
	switch action {
	case ActionView:
		return true
	case ActionManage:
		return actor.IsAdmin()
	default:
		return false
	}
}

// UserPolicy gates account administration. The resource is the target
// *domain.User (may be the actor for self lookups).
type UserPolicy struct{}

func (UserPolicy) Can(_ context.Context, actor *domain.User, action Action, resource any) bool {
	target, ok := resource.(*domain.User)
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return target.ID == actor.ID || actor.IsAdmin()
	case ActionManage:
		return actor.IsAdmin()
	default:
		return false
	}
}

// NewDefaultGate returns a gate with every policy registered.
func NewDefaultGate() *Gate {
	g := NewGate()
	g.Register(ResourceTicket, TicketPolicy{})
	g.Register(ResourceConversation, ConversationPolicy{})
	g.Register(ResourceMessage, MessagePolicy{})
	g.Register(ResourceAttachment, AttachmentPolicy{})
	g.Register(ResourceCategory, CategoryPolicy{})
	g.Register(ResourceUser, UserPolicy{})
	return g
}
