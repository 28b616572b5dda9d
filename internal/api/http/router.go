package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Conversations  *handlers.ConversationsHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Static paths are registered before their
// parameterized siblings so /tickets/all does not match /tickets/:id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/files/supported-types", cfg.Files.SupportedTypes)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/auth/me", cfg.Users.Me)
	protected.Put("/users/profile", cfg.Users.UpdateProfile)
	protected.Get("/users", cfg.Users.List)
	protected.Get("/users/agentes", cfg.Users.ListAgents)
	protected.Get("/users/:id", cfg.Users.Get)
	protected.Put("/users/:id/role", cfg.Users.UpdateRole)
	protected.Put("/users/:id/deactivate", cfg.Users.Deactivate)
	protected.Put("/users/:id/activate", cfg.Users.Activate)

	protected.Post("/tickets", cfg.Tickets.Create)
	protected.Post("/tickets/with-images", cfg.Tickets.CreateWithImages)
	protected.Get("/tickets/my-tickets", cfg.Tickets.ListMine)
	protected.Get("/tickets/all", cfg.Tickets.ListAll)
	protected.Get("/tickets/stats", cfg.Tickets.Stats)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Get("/tickets/:id/history", cfg.Tickets.GetHistory)
	protected.Put("/tickets/:id/assign", cfg.Tickets.Assign)
	protected.Put("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	protected.Put("/tickets/:id/priority", cfg.Tickets.UpdatePriority)
	protected.Put("/tickets/:id/category", cfg.Tickets.UpdateCategory)
	protected.Put("/tickets/:id/return", cfg.Tickets.Return)

	protected.Get("/categories", cfg.Categories.List)
	protected.Get("/categories/:id", cfg.Categories.Get)
	protected.Post("/categories", cfg.Categories.Create)
	protected.Put("/categories/:id", cfg.Categories.Update)
	protected.Delete("/categories/:id", cfg.Categories.Delete)

	protected.Post("/tickets/:id/messages", cfg.Conversations.SendMessage)
	protected.Post("/tickets/:id/reply", cfg.Conversations.Reply)
	protected.Post("/tickets/:id/notes", cfg.Conversations.AddNote)
	protected.Get("/tickets/:id/conversation", cfg.Conversations.GetConversation)
	protected.Get("/conversations/:id/messages", cfg.Conversations.ListMessages)
	protected.Delete("/messages/:id", cfg.Conversations.DeleteMessage)

	protected.Post("/tickets/:id/files", cfg.Files.Upload)
	protected.Get("/tickets/:id/files", cfg.Files.List)
	protected.Get("/files/:id", cfg.Files.Get)
	protected.Delete("/files/:id", cfg.Files.Delete)
}
