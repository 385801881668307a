package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/eduspark-api/internal/utils"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler constructs the health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register mounts the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{"status": "healthy"})
}
