package health

import (
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers reports connectivity of the service's dependencies.
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// GET /api/v1/health
func (h *Handlers) Status(c *fiber.Ctx) error {
	deps := fiber.Map{
		"database": "disconnected",
		"redis":    "not configured",
	}
	healthy := false

	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err == nil && sqlDB.Ping() == nil {
			deps["database"] = "connected"
			healthy = true
		}
	}
	if h.Rdb != nil {
		deps["redis"] = "disconnected"
		if err := h.Rdb.Ping(c.Context()).Err(); err == nil {
			deps["redis"] = "connected"
		}
	}

	status := "ok"
	if !healthy {
		status = "issue"
	}
	return response.Success(c, "Health collected", fiber.Map{
		"status":       status,
		"dependencies": deps,
	})
}
