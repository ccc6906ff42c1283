package health

import (
	healthsvc "origenmx-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	Rdb *redis.Client
	DB  *gorm.DB
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	var pinger healthsvc.DBPinger
	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err == nil {
			pinger = sqlDB
		}
	}
	return c.JSON(healthsvc.Collect(c.Context(), h.Rdb, pinger))
}
