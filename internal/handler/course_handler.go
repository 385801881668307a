package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// CourseHandler exposes the catalog endpoints. Reads are open to any
// authenticated user; writes are mounted behind the admin role.
type CourseHandler struct {
	courses service.CourseService
}

// NewCourseHandler constructs the course handler.
func NewCourseHandler(courses service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Register mounts the read-only catalog routes.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/lessons", h.listLessons)
}

// RegisterAdmin mounts the catalog write routes.
func (h *CourseHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Post("/:id/thumbnail", h.uploadThumbnail)
	router.Post("/:id/lessons", h.createLesson)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext())
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}
	return utils.SendSuccess(c, "", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.courses.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load course")
	}
	return utils.SendSuccess(c, "", course)
}

func (h *CourseHandler) listLessons(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessons, err := h.courses.ListLessons(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list lessons")
	}
	return utils.SendSuccess(c, "", lessons)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.CourseCreateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course payload")
	}

	course, err := h.courses.Create(c.UserContext(), userID, req)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.CourseUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course payload")
	}

	course, err := h.courses.Update(c.UserContext(), id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update course")
	}
	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.courses.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
	}
	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *CourseHandler) uploadThumbnail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "thumbnail file missing")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "thumbnail file unreadable")
	}
	defer file.Close()

	course, err := h.courses.UploadThumbnail(c.UserContext(), id, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrUnsupportedImage):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "thumbnail must be an image")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload thumbnail")
		}
	}
	return utils.SendSuccess(c, "thumbnail updated", course)
}

func (h *CourseHandler) createLesson(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.LessonCreateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lesson payload")
	}

	lesson, err := h.courses.CreateLesson(c.UserContext(), id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create lesson")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson created", lesson)
}
