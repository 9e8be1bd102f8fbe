package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/persistence"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	version  string
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{version: version, postgres: postgres, redis: redis}
}

// Live reports that the process is up.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": h.version})
}

// Ready checks downstream dependencies. Redis is best-effort; the registry
// degrades to uncached reads without it, so only postgres gates readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	status := fiber.StatusOK

	if err := h.postgres.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{"status": statusWord(status), "checks": checks})
}

func statusWord(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "unavailable"
}
