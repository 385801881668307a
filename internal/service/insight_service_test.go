package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
	"github.com/noah-isme/eduspark-api/pkg/ai"
)

type fakeGenerator struct {
	response string
	err      error
	lastReq  ai.Request
	calls    int
}

func (g *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	g.lastReq = req
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeGenerator) Model() string { return "fake-model" }

type insightFixture struct {
	db          *gorm.DB
	generator   *fakeGenerator
	service     InsightService
	predictions repository.PredictionRepository
}

func newInsightFixture(t *testing.T, generator *fakeGenerator) insightFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "insight.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.LessonProgress{},
		&models.Enrollment{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.ActivityLog{},
		&models.AIPrediction{},
	))

	predictions := repository.NewPredictionRepository(db)
	svc := NewInsightService(
		repository.NewActivityLogRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewQuizRepository(db),
		predictions,
		nil,
		generator,
		zerolog.Nop(),
	)

	return insightFixture{db: db, generator: generator, service: svc, predictions: predictions}
}

const validDropoutResponse = `{
	"riskLevel": "medium",
	"confidence": 0.82,
	"factors": ["irregular logins"],
	"recommendations": ["set a weekly study schedule"]
}`

func TestDropoutRiskZeroEnrollments(t *testing.T) {
	gen := &fakeGenerator{response: validDropoutResponse}
	fx := newInsightFixture(t, gen)

	prediction, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.NoError(t, err)

	// No enrollments must render a 0% average, never NaN.
	require.Contains(t, gen.lastReq.Prompt, "- Average progress across courses: 0%")
	require.Contains(t, gen.lastReq.Prompt, "- Total enrolled courses: 0")
	require.Equal(t, "medium", prediction.RiskLevel)
	require.GreaterOrEqual(t, prediction.Confidence, 0.0)
	require.LessOrEqual(t, prediction.Confidence, 1.0)
}

func TestDropoutRiskPromptFacts(t *testing.T) {
	gen := &fakeGenerator{response: validDropoutResponse}
	fx := newInsightFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.Enrollment{UserID: "user-1", CourseID: 1, Progress: 25}).Error)
	require.NoError(t, fx.db.Create(&models.Enrollment{UserID: "user-1", CourseID: 2, Progress: 75}).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, fx.db.Create(&models.ActivityLog{UserID: "user-1", Action: models.ActionLogin}).Error)
	}

	_, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.NoError(t, err)

	require.Contains(t, gen.lastReq.Prompt, "- Average progress across courses: 50%")
	require.Contains(t, gen.lastReq.Prompt, "- Recent activity (last 7 days): 3 actions")
	require.Contains(t, gen.lastReq.Prompt, "- Total enrolled courses: 2")
	require.Equal(t, insightSystemPrompt, gen.lastReq.System)
	require.NotNil(t, gen.lastReq.Schema)
}

func TestDropoutRiskPersistsAuditRow(t *testing.T) {
	gen := &fakeGenerator{response: validDropoutResponse}
	fx := newInsightFixture(t, gen)

	prediction, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.NoError(t, err)

	rows, err := fx.predictions.ListByUser(context.Background(), "user-1", models.PredictionDropoutRisk)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, 0.82, rows[0].Confidence, 0.001)

	var stored dto.DropoutRiskPrediction
	require.NoError(t, json.Unmarshal(rows[0].Prediction, &stored))
	require.Equal(t, prediction, stored)
}

func TestDropoutRiskSchemaMismatch(t *testing.T) {
	gen := &fakeGenerator{response: `{"confidence": 0.9, "factors": [], "recommendations": []}`}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrSchemaMismatch)

	rows, err := fx.predictions.ListByUser(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDropoutRiskRejectsNonJSON(t *testing.T) {
	gen := &fakeGenerator{response: "the student seems fine"}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrSchemaMismatch)

	rows, err := fx.predictions.ListByUser(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDropoutRiskConfidenceOutOfRange(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"riskLevel": "low",
		"confidence": 1.4,
		"factors": [],
		"recommendations": []
	}`}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestRecommendationsExcludeEnrolledCourses(t *testing.T) {
	gen := &fakeGenerator{response: `{"recommendations": [
		{"courseId": 1, "title": "Intro to Go", "description": "basics", "reason": "already mid-way", "confidence": 0.9},
		{"courseId": 2, "title": "Advanced SQL", "description": "queries", "reason": "natural next step", "confidence": 0.7}
	]}`}
	fx := newInsightFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.Course{Title: "Intro to Go", Category: "programming", Difficulty: "beginner", IsActive: true}).Error)
	require.NoError(t, fx.db.Create(&models.Course{Title: "Advanced SQL", Category: "data", Difficulty: "advanced", IsActive: true}).Error)
	require.NoError(t, fx.db.Create(&models.Enrollment{UserID: "user-1", CourseID: 1, Progress: 40}).Error)

	recommendations, err := fx.service.Recommendations(context.Background(), "user-1")
	require.NoError(t, err)

	// Course 1 is enrolled: it must not appear even though the model
	// returned it.
	require.Len(t, recommendations, 1)
	require.Equal(t, uint(2), recommendations[0].CourseID)
	require.NotContains(t, gen.lastReq.Prompt, "- ID: 1, Title: Intro to Go")
	require.Contains(t, gen.lastReq.Prompt, "- ID: 2, Title: Advanced SQL")
}

func TestRecommendationsShortCircuitWhenCatalogExhausted(t *testing.T) {
	gen := &fakeGenerator{response: `{"recommendations": []}`}
	fx := newInsightFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.Course{Title: "Intro to Go", IsActive: true}).Error)
	require.NoError(t, fx.db.Create(&models.Enrollment{UserID: "user-1", CourseID: 1}).Error)

	recommendations, err := fx.service.Recommendations(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, recommendations)
	require.Zero(t, gen.calls, "no model call should happen when every course is enrolled")
}

func TestPerformanceRequiresEnrollment(t *testing.T) {
	gen := &fakeGenerator{response: "{}"}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.Performance(context.Background(), "user-1", 42)
	require.ErrorIs(t, err, ErrNotEnrolled)
	require.Zero(t, gen.calls)
}

func TestQuizHintSanitizesInput(t *testing.T) {
	gen := &fakeGenerator{response: "Think about what the keyword does."}
	fx := newInsightFixture(t, gen)

	hint, err := fx.service.QuizHint(context.Background(), "user-1", dto.QuizHintRequest{
		Question:   `What does <script>alert("x")</script> the go keyword do?`,
		Options:    []string{"a", "b"},
		UserAnswer: "a",
	})
	require.NoError(t, err)
	require.Equal(t, "Think about what the keyword does.", hint.Hint)
	require.NotContains(t, gen.lastReq.Prompt, "<script>")
	require.Nil(t, gen.lastReq.Schema)
}

func TestQuizHintEmptyResponseFails(t *testing.T) {
	gen := &fakeGenerator{response: "   "}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.QuizHint(context.Background(), "user-1", dto.QuizHintRequest{
		Question: "2+2?",
		Options:  []string{"3", "4"},
	})
	require.ErrorIs(t, err, ErrGeneration)
}

func TestAdaptiveQuestionsDropsUnknownIDs(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"recommendedDifficulty": "intermediate",
		"adaptedQuestions": [
			{"questionId": 1, "difficulty": "intermediate", "adaptedExplanation": "ok", "suggestedHints": ["read the docs"]},
			{"questionId": 99, "difficulty": "advanced", "adaptedExplanation": "invented", "suggestedHints": []}
		]
	}`}
	fx := newInsightFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.Quiz{CourseID: 1, Title: "Go Basics"}).Error)
	require.NoError(t, fx.db.Create(&models.QuizQuestion{QuizID: 1, Question: "What is a goroutine?", Type: models.QuestionTypeShortAnswer, CorrectAnswer: "a lightweight thread"}).Error)

	adapted, err := fx.service.AdaptiveQuestions(context.Background(), "user-1", 1)
	require.NoError(t, err)
	require.Equal(t, "intermediate", adapted.RecommendedDifficulty)
	require.Len(t, adapted.AdaptedQuestions, 1)
	require.Equal(t, uint(1), adapted.AdaptedQuestions[0].QuestionID)
	require.Contains(t, gen.lastReq.Prompt, "This is the student's first attempt.")
}

func TestGenerationFailureSurfacesAsErrGeneration(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	fx := newInsightFixture(t, gen)

	_, err := fx.service.DropoutRisk(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrGeneration)

	rows, listErr := fx.predictions.ListByUser(context.Background(), "user-1", "")
	require.NoError(t, listErr)
	require.Empty(t, rows)
}

func TestLearningPatternCountsActions(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"learningStyle": "consistent evening learner",
		"strengths": ["steady pace"],
		"weaknesses": ["few quiz attempts"],
		"recommendations": ["try more quizzes"]
	}`}
	fx := newInsightFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.ActivityLog{UserID: "user-1", Action: models.ActionLogin}).Error)
	require.NoError(t, fx.db.Create(&models.ActivityLog{UserID: "user-1", Action: models.ActionLessonCompleted}).Error)
	require.NoError(t, fx.db.Create(&models.ActivityLog{UserID: "user-1", Action: models.ActionLessonCompleted}).Error)

	pattern, err := fx.service.LearningPattern(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "consistent evening learner", pattern.LearningStyle)
	require.Contains(t, gen.lastReq.Prompt, "- lesson_completed: 2 events")
	require.Contains(t, gen.lastReq.Prompt, "- login: 1 events")

	loginIdx := strings.Index(gen.lastReq.Prompt, "- login:")
	lessonIdx := strings.Index(gen.lastReq.Prompt, "- lesson_completed:")
	require.Less(t, lessonIdx, loginIdx, "actions render in sorted order")
}
