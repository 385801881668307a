package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/service"
	"github.com/noah-isme/eduspark-api/internal/utils"
)

// InsightHandler exposes the AI insight endpoints.
type InsightHandler struct {
	insights service.InsightService
}

// NewInsightHandler constructs the insight handler.
func NewInsightHandler(insights service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Register mounts the user-facing insight routes. Admin insights are mounted
// separately under the admin group.
func (h *InsightHandler) Register(router fiber.Router) {
	router.Get("/recommendations", h.recommendations)
	router.Get("/dropout-risk", h.dropoutRisk)
	router.Get("/performance/:courseId", h.performance)
	router.Post("/quiz-hint", h.quizHint)
	router.Get("/learning-path/:courseId", h.learningPath)
	router.Get("/adaptive-questions/:quizId", h.adaptiveQuestions)
	router.Get("/learning-pattern", h.learningPattern)
	router.Get("/predictions", h.history)
}

func (h *InsightHandler) recommendations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	recommendations, err := h.insights.Recommendations(c.UserContext(), userID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", recommendations)
}

func (h *InsightHandler) dropoutRisk(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	prediction, err := h.insights.DropoutRisk(c.UserContext(), userID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", prediction)
}

func (h *InsightHandler) performance(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	prediction, err := h.insights.Performance(c.UserContext(), userID, courseID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", prediction)
}

func (h *InsightHandler) quizHint(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.QuizHintRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid hint request")
	}

	hint, err := h.insights.QuizHint(c.UserContext(), userID, req)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", hint)
}

func (h *InsightHandler) learningPath(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	suggestion, err := h.insights.LearningPath(c.UserContext(), userID, courseID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", suggestion)
}

func (h *InsightHandler) adaptiveQuestions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	adapted, err := h.insights.AdaptiveQuestions(c.UserContext(), userID, quizID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", adapted)
}

func (h *InsightHandler) learningPattern(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	pattern, err := h.insights.LearningPattern(c.UserContext(), userID)
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", pattern)
}

func (h *InsightHandler) history(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	predictions, err := h.insights.History(c.UserContext(), userID, c.Query("type"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownPredictionType) {
			return utils.SendError(c, fiber.StatusBadRequest, "unknown prediction type")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load predictions")
	}
	return utils.SendSuccess(c, "", predictions)
}

// AdminInsights serves the platform-wide insight summary. Mounted under the
// admin group, so role enforcement happens before this handler runs.
func (h *InsightHandler) AdminInsights(c *fiber.Ctx) error {
	insights, err := h.insights.AdminInsights(c.UserContext())
	if err != nil {
		return sendInsightError(c, err)
	}
	return utils.SendSuccess(c, "", insights)
}

// sendInsightError maps pipeline failure classes onto HTTP statuses. Upstream
// model trouble is a bad gateway, missing inputs are server errors, and
// missing or unauthorized resources keep their usual statuses.
func sendInsightError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGeneration), errors.Is(err, service.ErrSchemaMismatch):
		return utils.SendError(c, fiber.StatusBadGateway, "insight generation failed")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusBadRequest, "not enrolled in course")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrInputFetch):
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load insight inputs")
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
	}
}
