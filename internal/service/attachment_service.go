package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	"github.com/spec-kit/helpdesk-api/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// uploadableTypes are the content types accepted for binary uploads.
var uploadableTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// supportedAttachmentTypes is the advisory list clients may query before
// uploading. Broader than the upload whitelist: link-only attachments may
// reference document types the binary path does not accept.
var supportedAttachmentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"text/csv",
}

// AttachmentService links uploaded files to tickets. Permission always
// follows the parent ticket.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	tickets     repository.TicketRepository
	uploader    storage.Uploader
	gate        *authz.Gate
	logger      *zap.Logger
	maxFileSize int64
	maxFiles    int
}

// AttachmentDependencies bundles collaborators for the attachment service.
type AttachmentDependencies struct {
	AttachmentRepo repository.AttachmentRepository
	TicketRepo     repository.TicketRepository
	Uploader       storage.Uploader
	Gate           *authz.Gate
	Logger         *zap.Logger
	MaxFileSize    int64
	MaxFiles       int
}

// FileUpload is one binary file submitted with a request.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewAttachmentService constructs the service.
func NewAttachmentService(deps AttachmentDependencies) *AttachmentService {
	return &AttachmentService{
		attachments: deps.AttachmentRepo,
		tickets:     deps.TicketRepo,
		uploader:    deps.Uploader,
		gate:        deps.Gate,
		logger:      deps.Logger,
		maxFileSize: deps.MaxFileSize,
		maxFiles:    deps.MaxFiles,
	}
}

// SupportedTypes returns the advisory content-type list.
func (s *AttachmentService) SupportedTypes() []string {
	out := make([]string, len(supportedAttachmentTypes))
	copy(out, supportedAttachmentTypes)
	return out
}

// ValidateUploads enforces the per-request file limits before any byte
// reaches the object store.
func (s *AttachmentService) ValidateUploads(files []FileUpload) error {
	if len(files) > s.maxFiles {
		return apperrors.NewValidationError(fmt.Sprintf("at most %d files per request", s.maxFiles))
	}
	for _, f := range files {
		if int64(len(f.Data)) > s.maxFileSize {
			return apperrors.NewValidationError(fmt.Sprintf("file %q exceeds the %d byte limit", f.Name, s.maxFileSize))
		}
		if _, ok := uploadableTypes[f.ContentType]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("file %q has unsupported type %q", f.Name, f.ContentType))
		}
	}
	return nil
}

// UploadAndAttach validates the files, stores each binary and records an
// attachment row per file.
func (s *AttachmentService) UploadAndAttach(ctx context.Context, actor *domain.User, ticketID string, files []FileUpload) ([]domain.Attachment, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files provided")
	}
	if err := s.ValidateUploads(files); err != nil {
		return nil, err
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionWrite, authz.ResourceAttachment, ticket); err != nil {
		return nil, apperrors.NewForbidden("access denied")
	}

	var attached []domain.Attachment
	for _, f := range files {
		link, err := s.uploader.Upload(ctx, f.Name, f.ContentType, f.Data)
		if err != nil {
			s.logger.Error("file upload failed",
				zap.String("ticket_id", ticketID),
				zap.String("file", f.Name),
				zap.Error(err),
			)
			return attached, apperrors.NewInternalError(err)
		}
		attachment := domain.Attachment{
			TicketID: ticket.ID,
			Type:     f.ContentType,
			Link:     link,
		}
		if err := s.attachments.Create(ctx, &attachment); err != nil {
			return attached, apperrors.MapError(err)
		}
		attached = append(attached, attachment)
	}
	return attached, nil
}

// Attach records an attachment that already lives at an external URL.
func (s *AttachmentService) Attach(ctx context.Context, actor *domain.User, ticketID, contentType, link string) (*domain.Attachment, error) {
	if link == "" {
		return nil, apperrors.NewValidationError("link is required")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionWrite, authz.ResourceAttachment, ticket); err != nil {
		return nil, apperrors.NewForbidden("access denied")
	}
	attachment := &domain.Attachment{
		TicketID: ticket.ID,
		Type:     contentType,
		Link:     link,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListByTicket returns a ticket's attachments, newest first.
func (s *AttachmentService) ListByTicket(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Attachment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionView, authz.ResourceAttachment, ticket); err != nil {
		return nil, apperrors.NewForbidden("access denied")
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

// GetByID returns one attachment record.
func (s *AttachmentService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.Attachment, error) {
	attachment, ticket, err := s.fetchAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionView, authz.ResourceAttachment, ticket); err != nil {
		return nil, apperrors.NewForbidden("access denied")
	}
	return attachment, nil
}

// Delete removes the attachment record. The stored object is left in place;
// its key is timestamped and never reused.
func (s *AttachmentService) Delete(ctx context.Context, actor *domain.User, id string) error {
	attachment, ticket, err := s.fetchAttachment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionDelete, authz.ResourceAttachment, ticket); err != nil {
		return apperrors.NewForbidden("access denied")
	}
	if err := s.attachments.Delete(ctx, attachment.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("attachment")
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AttachmentService) fetchAttachment(ctx context.Context, id string) (*domain.Attachment, *domain.Ticket, error) {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("attachment")
		}
		return nil, nil, apperrors.MapError(err)
	}
	ticket, err := s.fetchTicket(ctx, attachment.TicketID)
	if err != nil {
		return nil, nil, err
	}
	return attachment, ticket, nil
}

func (s *AttachmentService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}
