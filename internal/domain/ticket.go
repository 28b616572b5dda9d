package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus int

const (
	StatusOpen       TicketStatus = 1
	StatusAssigned   TicketStatus = 2
	StatusInProgress TicketStatus = 3
	StatusDelivered  TicketStatus = 4
	StatusReturned   TicketStatus = 5
	StatusResolved   TicketStatus = 6
	StatusClosed     TicketStatus = 7
)

var statusNames = map[TicketStatus]string{
	StatusOpen:       "Open",
	StatusAssigned:   "Assigned",
	StatusInProgress: "In Progress",
	StatusDelivered:  "Delivered",
	StatusReturned:   "Returned",
	StatusResolved:   "Resolved",
	StatusClosed:     "Closed",
}

// IsValid reports whether the status is one of the seven known states.
func (s TicketStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// Name returns the display name of the status.
func (s TicketStatus) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// TicketPriority enumerates urgency levels.
type TicketPriority int

const (
	PriorityLow    TicketPriority = 1
	PriorityMedium TicketPriority = 2
	PriorityHigh   TicketPriority = 3
)

var priorityNames = map[TicketPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// IsValid reports whether the priority is one of the known values.
func (p TicketPriority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Name returns the display name of the priority.
func (p TicketPriority) Name() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	UserID      string
	Title       string
	Description string
	CategoryID  int64
	Priority    TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
}

// statusTransitions is the single place legal successors are declared.
// Agents retain manual override, so every state currently lists all seven
// states as successors; tightening the lifecycle is a table edit here.
var statusTransitions = map[TicketStatus][]TicketStatus{
	StatusOpen:       {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusAssigned:   {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusDelivered:  {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusReturned:   {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusResolved:   {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
	StatusClosed:     {StatusOpen, StatusAssigned, StatusInProgress, StatusDelivered, StatusReturned, StatusResolved, StatusClosed},
}

// CanTransition reports whether moving from current to next is allowed.
// Both states must be valid; the successor table decides the rest.
func CanTransition(current, next TicketStatus) bool {
	if !next.IsValid() {
		return false
	}
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
