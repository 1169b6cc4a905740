package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin dashboard summary.
type AdminHandler struct {
	stats *services.StatsService
}

func NewAdminHandler(stats *services.StatsService) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// RegisterRoutes mounts /admin behind guards, normally AuthRequired followed by AdminOnly.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/admin", guards...)
	adminRoutes.Get("/stats", h.HandleStats)
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.stats.Collect(c.UserContext())
	if err != nil {
		return respondError(c, "Could not collect stats", err)
	}
	return c.JSON(stats)
}
