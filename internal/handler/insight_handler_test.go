package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/handler"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/service"
)

type errInsightService struct {
	err error
}

func (s errInsightService) DropoutRisk(context.Context, string) (dto.DropoutRiskPrediction, error) {
	return dto.DropoutRiskPrediction{RiskLevel: "low", Confidence: 0.5}, s.err
}

func (s errInsightService) Performance(context.Context, string, uint) (dto.PerformancePrediction, error) {
	return dto.PerformancePrediction{}, s.err
}

func (s errInsightService) Recommendations(context.Context, string) ([]dto.ContentRecommendation, error) {
	return nil, s.err
}

func (s errInsightService) LearningPath(context.Context, string, uint) (dto.LearningPathSuggestion, error) {
	return dto.LearningPathSuggestion{}, s.err
}

func (s errInsightService) QuizHint(context.Context, string, dto.QuizHintRequest) (dto.QuizHintResponse, error) {
	return dto.QuizHintResponse{}, s.err
}

func (s errInsightService) AdaptiveQuestions(context.Context, string, uint) (dto.AdaptiveQuestions, error) {
	return dto.AdaptiveQuestions{}, s.err
}

func (s errInsightService) LearningPattern(context.Context, string) (dto.LearningPattern, error) {
	return dto.LearningPattern{}, s.err
}

func (s errInsightService) AdminInsights(context.Context) (dto.AdminInsights, error) {
	return dto.AdminInsights{}, s.err
}

func (s errInsightService) History(context.Context, string, string) ([]models.AIPrediction, error) {
	return nil, s.err
}

func newInsightApp(svc service.InsightService, userID string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/ai", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewInsightHandler(svc).Register(group)
	return app
}

func performGet(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestDropoutRiskStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, fiber.StatusOK},
		{"generation failure", service.ErrGeneration, fiber.StatusBadGateway},
		{"schema mismatch", service.ErrSchemaMismatch, fiber.StatusBadGateway},
		{"input fetch failure", service.ErrInputFetch, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newInsightApp(errInsightService{err: tc.err}, "user-1")
			resp := performGet(t, app, "/api/ai/dropout-risk")
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestPerformanceNotEnrolledIsBadRequest(t *testing.T) {
	app := newInsightApp(errInsightService{err: service.ErrNotEnrolled}, "user-1")
	resp := performGet(t, app, "/api/ai/performance/3")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdaptiveQuestionsUnknownQuizIsNotFound(t *testing.T) {
	app := newInsightApp(errInsightService{err: gorm.ErrRecordNotFound}, "user-1")
	resp := performGet(t, app, "/api/ai/adaptive-questions/9")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInsightRoutesRequireAuthentication(t *testing.T) {
	app := newInsightApp(errInsightService{}, "")
	resp := performGet(t, app, "/api/ai/dropout-risk")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPerformanceRejectsBadCourseID(t *testing.T) {
	app := newInsightApp(errInsightService{}, "user-1")
	resp := performGet(t, app, "/api/ai/performance/zero")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
