package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// AdminHandler exposes the dashboard statistics and platform insights.
type AdminHandler struct {
	analytics service.AdminAnalyticsService
	insights  *InsightHandler
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(analytics service.AdminAnalyticsService, insights *InsightHandler) *AdminHandler {
	return &AdminHandler{analytics: analytics, insights: insights}
}

// Register mounts the admin routes. The caller wraps the group with the
// admin role requirement.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
	router.Get("/insights", h.insights.AdminInsights)
}

func (h *AdminHandler) stats(c *fiber.Ctx) error {
	stats, err := h.analytics.Stats(c.UserContext())
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load platform stats")
	}
	return utils.SendSuccess(c, "", stats)
}
