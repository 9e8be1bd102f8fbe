package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/api/http/handlers"
	"github.com/Juliussaint/gmianugerah/internal/auth"
	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Members        *handlers.MembersHandler
	Sectors        *handlers.SectorsHandler
	Families       *handlers.FamiliesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireOperator())

	members := api.Group("/members")
	members.Post("/", cfg.Members.Create)
	members.Get("/", cfg.Members.List)
	members.Get("/no/:memberNo", cfg.Members.GetByMemberNo)
	members.Get("/:id", cfg.Members.Get)
	members.Put("/:id", cfg.Members.Update)
	members.Post("/:id/transfer", cfg.Members.Transfer)
	members.Get("/:id/history", cfg.Members.History)
	members.Post("/:id/deactivate", cfg.Members.Deactivate)
	members.Post("/:id/decease", cfg.Members.Decease)

	sectors := api.Group("/sectors")
	sectors.Post("/", cfg.Sectors.Create)
	sectors.Get("/", cfg.Sectors.List)
	sectors.Get("/:id", cfg.Sectors.Get)
	sectors.Put("/:id", cfg.Sectors.Update)
	sectors.Delete("/:id", auth.RequireRole(domain.OperatorRoleAdmin), cfg.Sectors.Delete)

	families := api.Group("/families")
	families.Post("/", cfg.Families.Create)
	families.Get("/", cfg.Families.List)
	families.Get("/:id", cfg.Families.Get)
	families.Put("/:id", cfg.Families.Update)
	families.Post("/:id/dissolve", cfg.Families.Dissolve)
}
