package domain

import "time"

// ConversationType differentiates the two logical channels of a ticket.
type ConversationType int

const (
	// ConversationGlobal is visible to the ticket owner and staff.
	ConversationGlobal ConversationType = 1
	// ConversationAgentOnly holds internal notes between agents.
	ConversationAgentOnly ConversationType = 2
)

// IsValid reports whether the conversation type is known.
func (t ConversationType) IsValid() bool {
	return t == ConversationGlobal || t == ConversationAgentOnly
}

// Conversation is a message channel attached to a ticket. At most one
// conversation of each type exists per ticket; created lazily on first use.
type Conversation struct {
	ID       string
	TicketID string
	Type     ConversationType
}

// Message is a single entry in a conversation, immutable once created.
type Message struct {
	ID             string
	ConversationID string
	UserID         string
	Content        string
	SentAt         time.Time
}
