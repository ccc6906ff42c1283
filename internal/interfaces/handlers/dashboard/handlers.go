package dashboard

import (
	dashsvc "origenmx-backend/internal/application/dashboard"
	"origenmx-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *dashsvc.Service
}

// GetStats GET /api/v1/dashboard/get-stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.Service.Stats(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Dashboard stats fetched successfully", stats, nil)
}
