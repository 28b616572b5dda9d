package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/service"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// FilesHandler manages attachment endpoints.
type FilesHandler struct {
	service *service.AttachmentService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(attachmentService *service.AttachmentService) *FilesHandler {
	return &FilesHandler{service: attachmentService}
}

// Upload POST /tickets/:id/files. Multipart uploads go through the object
// store; a JSON body records an already hosted link instead.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	ticketID := c.Params("id")

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("multipart form required")
		}
		files, err := readUploads(form.File["files"])
		if err != nil {
			return err
		}
		attached, err := h.service.UploadAndAttach(c.UserContext(), account, ticketID, files)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "attachments": dto.NewAttachmentResponses(attached)})
	}

	var req dto.AttachLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Type == "" || req.Link == "" {
		return apperrors.NewValidationError("type and link are required")
	}
	attachment, err := h.service.Attach(c.UserContext(), account, ticketID, req.Type, req.Link)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "attachment": dto.NewAttachmentResponse(attachment)})
}

// List GET /tickets/:id/files.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	attachments, err := h.service.ListByTicket(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "attachments": dto.NewAttachmentResponses(attachments)})
}

// Get GET /files/:id.
func (h *FilesHandler) Get(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	attachment, err := h.service.GetByID(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "attachment": dto.NewAttachmentResponse(attachment)})
}

// Delete DELETE /files/:id.
func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// SupportedTypes GET /files/supported-types. Public, no auth.
func (h *FilesHandler) SupportedTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "types": h.service.SupportedTypes()})
}
