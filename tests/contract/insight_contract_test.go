package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/handler"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
	"github.com/noah-isme/eduspark-api/internal/service"
)

type stubInsightService struct {
	dropout dto.DropoutRiskPrediction
}

func (s stubInsightService) DropoutRisk(context.Context, string) (dto.DropoutRiskPrediction, error) {
	return s.dropout, nil
}

func (s stubInsightService) Performance(context.Context, string, uint) (dto.PerformancePrediction, error) {
	return dto.PerformancePrediction{}, nil
}

func (s stubInsightService) Recommendations(context.Context, string) ([]dto.ContentRecommendation, error) {
	return nil, nil
}

func (s stubInsightService) LearningPath(context.Context, string, uint) (dto.LearningPathSuggestion, error) {
	return dto.LearningPathSuggestion{}, nil
}

func (s stubInsightService) QuizHint(context.Context, string, dto.QuizHintRequest) (dto.QuizHintResponse, error) {
	return dto.QuizHintResponse{}, nil
}

func (s stubInsightService) AdaptiveQuestions(context.Context, string, uint) (dto.AdaptiveQuestions, error) {
	return dto.AdaptiveQuestions{}, nil
}

func (s stubInsightService) LearningPattern(context.Context, string) (dto.LearningPattern, error) {
	return dto.LearningPattern{}, nil
}

func (s stubInsightService) AdminInsights(context.Context) (dto.AdminInsights, error) {
	return dto.AdminInsights{}, nil
}

func (s stubInsightService) History(context.Context, string, string) ([]models.AIPrediction, error) {
	return nil, nil
}

type stubAnalyticsService struct {
	response dto.AdminStatsResponse
}

func (s stubAnalyticsService) Stats(context.Context) (dto.AdminStatsResponse, error) {
	return s.response, nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func authenticated(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestDropoutRiskContract(t *testing.T) {
	schema := compileSchema(t, "dropout_risk.schema.json")

	stub := stubInsightService{dropout: dto.DropoutRiskPrediction{
		UserID:          "user-1",
		RiskLevel:       "medium",
		Confidence:      0.82,
		Factors:         []string{"low recent activity"},
		Recommendations: []string{"schedule a study session"},
	}}

	app := fiber.New()
	group := app.Group("/api/ai", authenticated("user-1"))
	handler.NewInsightHandler(stub).Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/ai/dropout-risk", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestAdminStatsContract(t *testing.T) {
	schema := compileSchema(t, "admin_stats.schema.json")

	stub := stubAnalyticsService{response: dto.AdminStatsResponse{
		Students: repository.StudentStats{
			TotalStudents:     12,
			ActiveStudents:    5,
			AvgCompletionRate: 41.5,
			AtRiskStudents:    3,
		},
		Courses: repository.CourseStats{TotalCourses: 4, ActiveCourses: 3},
		Engagement: []repository.EngagementPoint{
			{Date: "2026-08-25", ActiveUsers: 4},
		},
		GeneratedAt: time.Now().UTC(),
	}}

	var _ service.AdminAnalyticsService = stub

	app := fiber.New()
	group := app.Group("/api/admin", authenticated("admin-1"))
	handler.NewAdminHandler(stub, handler.NewInsightHandler(stubInsightService{})).Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
