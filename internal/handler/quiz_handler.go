package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// QuizHandler exposes quiz delivery and attempt grading.
type QuizHandler struct {
	quizzes service.QuizService
}

// NewQuizHandler constructs the quiz handler.
func NewQuizHandler(quizzes service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// Register mounts the quiz routes.
func (h *QuizHandler) Register(router fiber.Router) {
	router.Get("/course/:courseId", h.listByCourse)
	router.Get("/:id", h.get)
	router.Get("/:id/questions", h.questions)
	router.Post("/:id/attempts", h.startAttempt)
	router.Post("/attempts/:attemptId/submit", h.submitAttempt)
}

func (h *QuizHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	quizzes, err := h.quizzes.ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list quizzes")
	}
	return utils.SendSuccess(c, "", quizzes)
}

func (h *QuizHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	quiz, err := h.quizzes.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load quiz")
	}
	return utils.SendSuccess(c, "", quiz)
}

func (h *QuizHandler) questions(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.quizzes.Questions(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load questions")
	}
	return utils.SendSuccess(c, "", questions)
}

func (h *QuizHandler) startAttempt(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.quizzes.StartAttempt(c.UserContext(), userID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		case errors.Is(err, service.ErrQuizEmpty):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "quiz has no questions")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to start attempt")
		}
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attempt started", attempt)
}

func (h *QuizHandler) submitAttempt(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	attemptID, err := parseIDParam(c, "attemptId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.QuizSubmissionRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission payload")
	}

	result, err := h.quizzes.SubmitAttempt(c.UserContext(), userID, attemptID, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "attempt not found")
		case errors.Is(err, service.ErrAttemptOwnership):
			return utils.SendError(c, fiber.StatusForbidden, "attempt belongs to another user")
		case errors.Is(err, service.ErrAttemptCompleted):
			return utils.SendError(c, fiber.StatusConflict, "attempt already completed")
		case errors.Is(err, service.ErrQuizEmpty):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "quiz has no questions")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to grade attempt")
		}
	}
	return utils.SendSuccess(c, "attempt graded", result)
}
