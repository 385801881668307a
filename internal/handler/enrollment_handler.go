package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// EnrollmentHandler exposes enrollment and lesson progress endpoints.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
}

// NewEnrollmentHandler constructs the enrollment handler.
func NewEnrollmentHandler(enrollments service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Register mounts the enrollment routes.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.enroll)
	router.Post("/lessons/:lessonId/progress", h.reportProgress)
}

func (h *EnrollmentHandler) list(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	enrollments, err := h.enrollments.ListByUser(c.UserContext(), userID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list enrollments")
	}
	return utils.SendSuccess(c, "", enrollments)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.EnrollmentCreateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment payload")
	}

	enrollment, err := h.enrollments.Enroll(c.UserContext(), userID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return utils.SendError(c, fiber.StatusConflict, "already enrolled")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll")
		}
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

func (h *EnrollmentHandler) reportProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	lessonID, err := parseIDParam(c, "lessonId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.LessonProgressRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid progress payload")
	}

	enrollment, err := h.enrollments.ReportLessonProgress(c.UserContext(), userID, lessonID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnrolled):
			return utils.SendError(c, fiber.StatusBadRequest, "not enrolled in course")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record progress")
		}
	}
	return utils.SendSuccess(c, "progress recorded", enrollment)
}
