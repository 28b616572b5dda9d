package domain

import "time"

// Attachment records metadata for a file associated with a ticket.
// The binary itself lives in external object storage; Link is its public URL.
type Attachment struct {
	ID        string
	TicketID  string
	Type      string
	Link      string
	CreatedAt time.Time
}
