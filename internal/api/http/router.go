package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/http/handlers"
	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Kanban         *handlers.KanbanHandler
	Contacts       *handlers.ContactsHandler
	Users          *handlers.UsersHandler
	Updates        *handlers.UpdatesHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer backs GET /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewApp builds the fiber application with middlewares and routes.
func NewApp(appName string, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, timeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes. Public routes come first so the
// authenticated group never sees them.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Post("/auth/login", cfg.Users.Login)

	api := app.Group("/", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	admin := auth.RequireRole(auth.AdminRoles...)

	api.Get("/auth/me", cfg.Users.Me)
	api.Post("/auth/password/change", cfg.Users.ChangePassword)

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id", cfg.Tickets.PatchTicket)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	api.Put("/tickets/:id/column", cfg.Tickets.MoveTicket)
	api.Get("/tickets/:id/messages", cfg.Tickets.ListMessages)
	api.Get("/tickets/:id/history", cfg.Tickets.ListHistory)
	api.Post("/messages", cfg.Tickets.SendMessage)

	api.Get("/kanban-config", cfg.Kanban.GetConfig)
	api.Put("/kanban-config", cfg.Kanban.ReplaceConfig)
	api.Post("/kanban-config/columns/:id/move", cfg.Kanban.MoveColumn)
	api.Get("/client/plan", cfg.Kanban.GetPlan)

	api.Get("/contacts", cfg.Contacts.ListContacts)
	api.Post("/contacts", cfg.Contacts.CreateContact)
	api.Get("/queues", cfg.Contacts.ListQueues)
	api.Post("/queues", admin, cfg.Contacts.CreateQueue)
	api.Patch("/queues/:id", admin, cfg.Contacts.UpdateQueue)

	api.Get("/users", admin, cfg.Users.ListUsers)
	api.Post("/users", admin, cfg.Users.CreateUser)
	api.Put("/users/:id", admin, cfg.Users.UpdateUser)
	api.Delete("/users/:id", admin, cfg.Users.DeleteUser)

	api.Get("/admin/updates", admin, cfg.Updates.ListUpdates)
	api.Post("/admin/updates", admin, cfg.Updates.CreateUpdate)
	api.Delete("/admin/updates/:id", admin, cfg.Updates.DeleteUpdate)
}
