package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// AttachLinkRequest records an attachment already hosted elsewhere.
type AttachLinkRequest struct {
	Type string `json:"type"`
	Link string `json:"link"`
}

// AttachmentResponse is the wire form of an attachment record.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Type      string    `json:"type"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttachmentResponse maps a domain attachment.
func NewAttachmentResponse(attachment *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        attachment.ID,
		TicketID:  attachment.TicketID,
		Type:      attachment.Type,
		Link:      attachment.Link,
		CreatedAt: attachment.CreatedAt,
	}
}

// NewAttachmentResponses maps an attachment slice.
func NewAttachmentResponses(attachments []domain.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, NewAttachmentResponse(&attachments[i]))
	}
	return out
}
