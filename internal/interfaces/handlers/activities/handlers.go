package activities

import (
	actsvc "origenmx-backend/internal/application/activities"
	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *actsvc.Service
}

// GetActivities GET /api/v1/activities/get-activities?type=payment
func (h *Handlers) GetActivities(c *fiber.Ctx) error {
	typeFilter := c.Query("type")
	if typeFilter != "" && !domain.IsActivityType(typeFilter) {
		return response.Error(c, "Invalid activity type", 400, nil)
	}
	events, err := h.Service.ListActivities(c.Context(), typeFilter)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Activities fetched successfully", events, nil)
}
