package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// UserHandler exposes the authenticated-profile endpoints.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler constructs the user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register mounts the auth routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/user", h.current)
	router.Post("/sync", h.sync)
}

func (h *UserHandler) current(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	user, err := h.users.Get(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	return utils.SendSuccess(c, "", user)
}

type userSyncRequest struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"max=255"`
	LastName        string `json:"last_name" validate:"max=255"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
}

// sync mirrors the identity-provider profile on login and records the login
// event the insight pipeline reads.
func (h *UserHandler) sync(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req userSyncRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid profile payload")
	}

	user, err := h.users.Sync(c.UserContext(), models.User{
		ID:              userID,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sync user")
	}
	return utils.SendSuccess(c, "profile synced", user)
}
