package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// ActivityHandler exposes the user's recent activity feed.
type ActivityHandler struct {
	activity service.ActivityService
}

// NewActivityHandler constructs the activity handler.
func NewActivityHandler(activity service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// Register mounts the activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/", h.recent)
}

func (h *ActivityHandler) recent(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.activity.Recent(c.UserContext(), userID, limit)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load activity")
	}
	return utils.SendSuccess(c, "", entries)
}
