package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	PriorityID  domain.TicketPriority `json:"priority_id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID string `json:"agent_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status      domain.TicketStatus `json:"status"`
	Description string              `json:"description"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	PriorityID domain.TicketPriority `json:"priority_id"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

// ReturnTicketRequest payload.
type ReturnTicketRequest struct {
	Reason string `json:"reason"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	PriorityID  domain.TicketPriority `json:"priority_id"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketHistoryResponse is the wire form of one audit entry.
type TicketHistoryResponse struct {
	ID             string               `json:"id"`
	TicketID       string               `json:"ticket_id"`
	Status         *domain.TicketStatus `json:"status"`
	AssignedUserID *string              `json:"assigned_user_id"`
	Description    string               `json:"description"`
	CreatedAt      time.Time            `json:"created_at"`
}

// TicketStatsResponse aggregates ticket counts.
type TicketStatsResponse struct {
	Total      int64         `json:"total"`
	ByStatus   map[int]int64 `json:"by_status"`
	ByPriority map[int]int64 `json:"by_priority"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		UserID:      ticket.UserID,
		Title:       ticket.Title,
		Description: ticket.Description,
		CategoryID:  ticket.CategoryID,
		PriorityID:  ticket.Priority,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
	}
}

// NewTicketResponses maps a ticket slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewTicketHistoryResponses maps an audit trail.
func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	out := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TicketHistoryResponse{
			ID:             entry.ID,
			TicketID:       entry.TicketID,
			Status:         entry.Status,
			AssignedUserID: entry.AssignedUserID,
			Description:    entry.Description,
			CreatedAt:      entry.CreatedAt,
		})
	}
	return out
}

// NewTicketStatsResponse maps aggregate counts.
func NewTicketStatsResponse(stats *repository.TicketStats) TicketStatsResponse {
	byStatus := make(map[int]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[int(status)] = count
	}
	byPriority := make(map[int]int64, len(stats.ByPriority))
	for priority, count := range stats.ByPriority {
		byPriority[int(priority)] = count
	}
	return TicketStatsResponse{
		Total:      stats.Total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
	}
}
