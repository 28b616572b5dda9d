package domain

import "time"

// TicketHistory is an append-only audit record of one ticket mutation.
// Entries are never edited or removed. Status is nil for mutations that
// imply no status transition (priority or category updates).
type TicketHistory struct {
	ID             string
	TicketID       string
	Status         *TicketStatus
	AssignedUserID *string
	Description    string
	CreatedAt      time.Time
}
