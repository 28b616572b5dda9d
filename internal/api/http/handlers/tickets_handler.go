package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	"github.com/spec-kit/helpdesk-api/internal/service"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	attachments *service.AttachmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, attachments *service.AttachmentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, attachments: attachments}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.tickets.Create(c.UserContext(), account, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

// CreateWithImages POST /tickets/with-images. Multipart: ticket fields plus
// up to the configured number of binary files.
func (h *TicketsHandler) CreateWithImages(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required")
	}

	input := service.TicketCreateInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
	}
	if v := formValue(form, "category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("category_id must be an integer")
		}
		input.CategoryID = id
	}
	if v := formValue(form, "priority_id"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("priority_id must be an integer")
		}
		input.PriorityID = domain.TicketPriority(p)
	}

	files, err := readUploads(form.File["files"])
	if err != nil {
		return err
	}
	// reject oversized or unsupported files before the ticket row exists
	if len(files) > 0 {
		if err := h.attachments.ValidateUploads(files); err != nil {
			return err
		}
	}

	ticket, err := h.tickets.Create(c.UserContext(), account, input)
	if err != nil {
		return err
	}

	var attached []domain.Attachment
	if len(files) > 0 {
		attached, err = h.attachments.UploadAndAttach(c.UserContext(), account, ticket.ID, files)
		if err != nil {
			return err
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"ticket":      dto.NewTicketResponse(ticket),
		"attachments": dto.NewAttachmentResponses(attached),
	})
}

// ListMine GET /tickets/my-tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListForUser(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "tickets": dto.NewTicketResponses(tickets)})
}

// ListAll GET /tickets/all.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAll(c.UserContext(), account, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "tickets": dto.NewTicketResponses(tickets)})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	stats, err := h.tickets.Stats(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "stats": dto.NewTicketStatsResponse(stats)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetByID(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.tickets.GetHistory(c.UserContext(), account, ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"ticket":  dto.NewTicketResponse(ticket),
		"history": dto.NewTicketHistoryResponses(history),
	})
}

// GetHistory GET /tickets/:id/history.
func (h *TicketsHandler) GetHistory(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	history, err := h.tickets.GetHistory(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "history": dto.NewTicketHistoryResponses(history)})
}

// Assign PUT /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.AgentID == "" {
		return apperrors.NewValidationError("agent_id is required")
	}
	ticket, err := h.tickets.Assign(c.UserContext(), account, c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), account, c.Params("id"), req.Status, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

// UpdatePriority PUT /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.tickets.UpdatePriority(c.UserContext(), account, c.Params("id"), req.PriorityID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

// UpdateCategory PUT /tickets/:id/category.
func (h *TicketsHandler) UpdateCategory(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.tickets.UpdateCategory(c.UserContext(), account, c.Params("id"), req.CategoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

// Return PUT /tickets/:id/return.
func (h *TicketsHandler) Return(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.ReturnTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.tickets.Return(c.UserContext(), account, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "ticket": dto.NewTicketResponse(ticket)})
}

func parseTicketFilter(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}
	if v := c.Query("sw_status"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filter, apperrors.NewValidationError("sw_status must be an integer")
		}
		status := domain.TicketStatus(parsed)
		filter.Status = &status
	}
	if v := c.Query("priority_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filter, apperrors.NewValidationError("priority_id must be an integer")
		}
		priority := domain.TicketPriority(parsed)
		filter.Priority = &priority
	}
	if v := c.Query("category_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("category_id must be an integer")
		}
		filter.CategoryID = &parsed
	}
	return filter, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readUploads(headers []*multipart.FileHeader) ([]service.FileUpload, error) {
	uploads := make([]service.FileUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, apperrors.NewValidationError("unreadable file " + header.Filename)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, apperrors.NewValidationError("unreadable file " + header.Filename)
		}
		uploads = append(uploads, service.FileUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
