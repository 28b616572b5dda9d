package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/service"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// UsersHandler manages account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Me GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(account)})
}

// UpdateProfile PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	updated, err := h.service.UpdateProfile(c.UserContext(), account, service.ProfileUpdateInput{
		Name:     req.Name,
		JobTitle: req.JobTitle,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(updated)})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "users": dto.NewUserResponses(users)})
}

// ListAgents GET /users/agentes.
func (h *UsersHandler) ListAgents(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	agents, err := h.service.ListAgents(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "users": dto.NewUserResponses(agents)})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetByID(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}

// UpdateRole PUT /users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	user, err := h.service.UpdateRole(c.UserContext(), account, c.Params("id"), req.RoleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}

// Deactivate PUT /users/:id/deactivate.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	user, err := h.service.Deactivate(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}

// Activate PUT /users/:id/activate.
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	account, err := requireAccount(c)
	if err != nil {
		return err
	}
	user, err := h.service.Activate(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}
