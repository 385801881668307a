package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/observability"
	"github.com/noah-isme/eduspark-api/internal/repository"
	"github.com/noah-isme/eduspark-api/pkg/ai"
)

// Insight pipeline failure classes. Handlers map these onto HTTP statuses;
// everything else (including gorm.ErrRecordNotFound) passes through wrapped.
var (
	// ErrInputFetch marks a failure while loading the data an insight is
	// grounded on. Nothing was sent to the model.
	ErrInputFetch = errors.New("insight: input fetch failed")

	// ErrGeneration marks a failed or empty model response.
	ErrGeneration = errors.New("insight: generation failed")

	// ErrSchemaMismatch marks a model response that parsed as JSON but does
	// not satisfy the declared schema. The raw response is never returned to
	// the caller and never persisted.
	ErrSchemaMismatch = errors.New("insight: response does not match schema")

	// ErrNotEnrolled is returned for course-scoped insights when the user has
	// no enrollment in the course.
	ErrNotEnrolled = errors.New("insight: user is not enrolled in course")

	// ErrUnknownPredictionType is returned when a history query filters on a
	// type the pipeline never persists.
	ErrUnknownPredictionType = errors.New("insight: unknown prediction type")
)

// Activity window fed into user-scoped prompts, matching the repository's
// default list size.
const activityWindow = 100

// InsightService orchestrates every AI insight: fetch inputs, build a
// deterministic prompt, call the model, validate the response against the
// declared schema, persist an audit row where the type calls for one, and
// return the typed result. Generation results are never cached.
type InsightService interface {
	DropoutRisk(ctx context.Context, userID string) (dto.DropoutRiskPrediction, error)
	Performance(ctx context.Context, userID string, courseID uint) (dto.PerformancePrediction, error)
	Recommendations(ctx context.Context, userID string) ([]dto.ContentRecommendation, error)
	LearningPath(ctx context.Context, userID string, courseID uint) (dto.LearningPathSuggestion, error)
	QuizHint(ctx context.Context, userID string, req dto.QuizHintRequest) (dto.QuizHintResponse, error)
	AdaptiveQuestions(ctx context.Context, userID string, quizID uint) (dto.AdaptiveQuestions, error)
	LearningPattern(ctx context.Context, userID string) (dto.LearningPattern, error)
	AdminInsights(ctx context.Context) (dto.AdminInsights, error)
	History(ctx context.Context, userID, predictionType string) ([]models.AIPrediction, error)
}

type insightService struct {
	activities  repository.ActivityLogRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	quizzes     repository.QuizRepository
	predictions repository.PredictionRepository
	analytics   AdminAnalyticsService
	generator   ai.Generator
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewInsightService constructs the insight orchestrator.
func NewInsightService(
	activities repository.ActivityLogRepository,
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	quizzes repository.QuizRepository,
	predictions repository.PredictionRepository,
	analytics AdminAnalyticsService,
	generator ai.Generator,
	logger zerolog.Logger,
) InsightService {
	return &insightService{
		activities:  activities,
		enrollments: enrollments,
		courses:     courses,
		quizzes:     quizzes,
		predictions: predictions,
		analytics:   analytics,
		generator:   generator,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "insight").Logger(),
		tracer:      otel.Tracer("eduspark/insight"),
		now:         time.Now,
	}
}

// Model response payloads. Property names follow the declared schemas, so
// these stay separate from the snake_case DTOs returned to clients.

type dropoutRiskPayload struct {
	RiskLevel       string   `json:"riskLevel"`
	Confidence      float64  `json:"confidence"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

type performancePayload struct {
	PredictedScore  float64  `json:"predictedScore"`
	Confidence      float64  `json:"confidence"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

type recommendationItemPayload struct {
	CourseID    uint    `json:"courseId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
}

type recommendationsPayload struct {
	Recommendations []recommendationItemPayload `json:"recommendations"`
}

type learningPathPayload struct {
	NextCourse string  `json:"nextCourse"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

type adminInsightsPayload struct {
	DropoutAlerts          []string `json:"dropoutAlerts"`
	PerformanceInsights    []string `json:"performanceInsights"`
	ContentRecommendations []string `json:"contentRecommendations"`
}

type adaptiveQuestionPayload struct {
	QuestionID         uint     `json:"questionId"`
	Difficulty         string   `json:"difficulty"`
	AdaptedExplanation string   `json:"adaptedExplanation"`
	SuggestedHints     []string `json:"suggestedHints"`
}

type adaptiveQuestionsPayload struct {
	RecommendedDifficulty string                    `json:"recommendedDifficulty"`
	AdaptedQuestions      []adaptiveQuestionPayload `json:"adaptedQuestions"`
}

type learningPatternPayload struct {
	LearningStyle   string   `json:"learningStyle"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

func (s *insightService) DropoutRisk(ctx context.Context, userID string) (dto.DropoutRiskPrediction, error) {
	ctx, span := s.startSpan(ctx, "insight.dropout_risk", userID)
	defer span.End()

	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return dto.DropoutRiskPrediction{}, s.inputErr(span, models.PredictionDropoutRisk, err)
	}
	activity, err := s.activities.ListByUser(ctx, userID, activityWindow)
	if err != nil {
		return dto.DropoutRiskPrediction{}, s.inputErr(span, models.PredictionDropoutRisk, err)
	}

	facts := dropoutFacts{
		Enrollments:   len(enrollments),
		AvgProgress:   averageProgress(enrollments),
		TotalActivity: len(activity),
		LastLogin:     "never",
	}
	cutoff := s.now().UTC().AddDate(0, 0, -7)
	for _, entry := range activity {
		if entry.Timestamp.After(cutoff) {
			facts.RecentActivity++
		}
	}
	for _, entry := range activity {
		if entry.Action == models.ActionLogin {
			facts.LastLogin = entry.Timestamp.UTC().Format("2006-01-02")
			break
		}
	}

	var payload dropoutRiskPayload
	if err := s.generate(ctx, span, models.PredictionDropoutRisk, buildDropoutRiskPrompt(facts), dropoutRiskSchema, &payload); err != nil {
		return dto.DropoutRiskPrediction{}, err
	}

	result := dto.DropoutRiskPrediction{
		UserID:          userID,
		RiskLevel:       payload.RiskLevel,
		Confidence:      payload.Confidence,
		Factors:         payload.Factors,
		Recommendations: payload.Recommendations,
	}
	s.persist(ctx, userID, models.PredictionDropoutRisk, payload.Confidence, result)
	return result, nil
}

func (s *insightService) Performance(ctx context.Context, userID string, courseID uint) (dto.PerformancePrediction, error) {
	ctx, span := s.startSpan(ctx, "insight.performance", userID)
	defer span.End()

	enrollment, err := s.enrollments.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PerformancePrediction{}, ErrNotEnrolled
		}
		return dto.PerformancePrediction{}, s.inputErr(span, models.PredictionPerformance, err)
	}
	quizzes, err := s.quizzes.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.PerformancePrediction{}, s.inputErr(span, models.PredictionPerformance, err)
	}

	facts := performanceFacts{
		Progress:   enrollment.Progress,
		QuizCount:  len(quizzes),
		EnrolledAt: enrollment.EnrolledAt,
	}

	var payload performancePayload
	if err := s.generate(ctx, span, models.PredictionPerformance, buildPerformancePrompt(facts), performanceSchema, &payload); err != nil {
		return dto.PerformancePrediction{}, err
	}

	result := dto.PerformancePrediction{
		UserID:          userID,
		CourseID:        courseID,
		PredictedScore:  payload.PredictedScore,
		Confidence:      payload.Confidence,
		Strengths:       payload.Strengths,
		Weaknesses:      payload.Weaknesses,
		Recommendations: payload.Recommendations,
	}
	s.persist(ctx, userID, models.PredictionPerformance, payload.Confidence, result)
	return result, nil
}

func (s *insightService) Recommendations(ctx context.Context, userID string) ([]dto.ContentRecommendation, error) {
	ctx, span := s.startSpan(ctx, "insight.recommendations", userID)
	defer span.End()

	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.inputErr(span, models.PredictionRecommendation, err)
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, s.inputErr(span, models.PredictionRecommendation, err)
	}

	enrolled := make(map[uint]bool, len(enrollments))
	enrolledFacts := make([]enrollmentFact, 0, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.CourseID] = true
		enrolledFacts = append(enrolledFacts, enrollmentFact{CourseID: e.CourseID, Progress: e.Progress})
	}

	availableFacts := make([]courseFact, 0, len(courses))
	for _, c := range courses {
		if enrolled[c.ID] {
			continue
		}
		availableFacts = append(availableFacts, courseFact{
			ID:         c.ID,
			Title:      c.Title,
			Category:   c.Category,
			Difficulty: c.Difficulty,
		})
	}
	if len(availableFacts) == 0 {
		observability.InsightRuns().WithLabelValues(models.PredictionRecommendation, "ok").Inc()
		return []dto.ContentRecommendation{}, nil
	}

	var payload recommendationsPayload
	if err := s.generate(ctx, span, models.PredictionRecommendation, buildRecommendationsPrompt(enrolledFacts, availableFacts), recommendationsSchema, &payload); err != nil {
		return nil, err
	}

	// The schema caps the list at 3, but truncate and re-check enrollment
	// anyway: a recommendation for an enrolled course must never reach the
	// client even if the model invents one.
	items := payload.Recommendations
	if len(items) > 3 {
		items = items[:3]
	}
	results := make([]dto.ContentRecommendation, 0, len(items))
	maxConfidence := 0.0
	for _, item := range items {
		if enrolled[item.CourseID] {
			s.logger.Warn().
				Str("user_id", userID).
				Uint("course_id", item.CourseID).
				Msg("model recommended an enrolled course, dropping")
			continue
		}
		if item.Confidence > maxConfidence {
			maxConfidence = item.Confidence
		}
		results = append(results, dto.ContentRecommendation{
			UserID:      userID,
			CourseID:    item.CourseID,
			Title:       item.Title,
			Description: item.Description,
			Reason:      item.Reason,
			Confidence:  item.Confidence,
		})
	}

	s.persist(ctx, userID, models.PredictionRecommendation, maxConfidence, results)
	return results, nil
}

func (s *insightService) LearningPath(ctx context.Context, userID string, courseID uint) (dto.LearningPathSuggestion, error) {
	ctx, span := s.startSpan(ctx, "insight.learning_path", userID)
	defer span.End()

	enrollment, err := s.enrollments.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LearningPathSuggestion{}, ErrNotEnrolled
		}
		return dto.LearningPathSuggestion{}, s.inputErr(span, models.PredictionLearningPath, err)
	}
	current, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return dto.LearningPathSuggestion{}, s.inputErr(span, models.PredictionLearningPath, err)
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return dto.LearningPathSuggestion{}, s.inputErr(span, models.PredictionLearningPath, err)
	}

	facts := learningPathFacts{
		CurrentTitle:      current.Title,
		CurrentCategory:   current.Category,
		CurrentDifficulty: current.Difficulty,
		Progress:          enrollment.Progress,
	}
	for _, c := range courses {
		if c.ID == courseID {
			continue
		}
		facts.Others = append(facts.Others, courseFact{
			ID:         c.ID,
			Title:      c.Title,
			Category:   c.Category,
			Difficulty: c.Difficulty,
		})
	}

	var payload learningPathPayload
	if err := s.generate(ctx, span, models.PredictionLearningPath, buildLearningPathPrompt(facts), learningPathSchema, &payload); err != nil {
		return dto.LearningPathSuggestion{}, err
	}

	result := dto.LearningPathSuggestion{
		UserID:        userID,
		CurrentCourse: current.Title,
		NextCourse:    payload.NextCourse,
		Reason:        payload.Reason,
		Confidence:    payload.Confidence,
	}
	s.persist(ctx, userID, models.PredictionLearningPath, payload.Confidence, result)
	return result, nil
}

// QuizHint is stateless: the question comes from the request, the hint is
// free text and nothing is persisted.
func (s *insightService) QuizHint(ctx context.Context, userID string, req dto.QuizHintRequest) (dto.QuizHintResponse, error) {
	ctx, span := s.startSpan(ctx, "insight.quiz_hint", userID)
	defer span.End()

	facts := quizHintFacts{
		Question:   s.sanitizer.Sanitize(req.Question),
		UserAnswer: s.sanitizer.Sanitize(req.UserAnswer),
	}
	for _, option := range req.Options {
		facts.Options = append(facts.Options, s.sanitizer.Sanitize(option))
	}

	raw, err := s.generator.Generate(ctx, ai.Request{
		System: insightSystemPrompt,
		Prompt: buildQuizHintPrompt(facts),
	})
	if err != nil {
		return dto.QuizHintResponse{}, s.generationErr(span, "quiz_hint", err)
	}

	hint := strings.TrimSpace(raw)
	if hint == "" {
		return dto.QuizHintResponse{}, s.generationErr(span, "quiz_hint", errors.New("empty hint"))
	}

	observability.InsightRuns().WithLabelValues("quiz_hint", "ok").Inc()
	return dto.QuizHintResponse{Hint: hint}, nil
}

func (s *insightService) AdaptiveQuestions(ctx context.Context, userID string, quizID uint) (dto.AdaptiveQuestions, error) {
	ctx, span := s.startSpan(ctx, "insight.adaptive_questions", userID)
	defer span.End()

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdaptiveQuestions{}, fmt.Errorf("quiz %d: %w", quizID, err)
		}
		return dto.AdaptiveQuestions{}, s.inputErr(span, models.PredictionAdaptiveQuestions, err)
	}
	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return dto.AdaptiveQuestions{}, s.inputErr(span, models.PredictionAdaptiveQuestions, err)
	}
	attempts, err := s.quizzes.ListAttempts(ctx, userID, quizID)
	if err != nil {
		return dto.AdaptiveQuestions{}, s.inputErr(span, models.PredictionAdaptiveQuestions, err)
	}

	facts := adaptiveFacts{QuizTitle: quiz.Title}
	scoreSum := 0.0
	for _, attempt := range attempts {
		if attempt.Score == nil {
			continue
		}
		facts.AttemptCount++
		scoreSum += *attempt.Score
	}
	if facts.AttemptCount > 0 {
		facts.AvgScore = scoreSum / float64(facts.AttemptCount)
	}
	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
		facts.Questions = append(facts.Questions, adaptiveQuestionFact{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Question,
		})
	}

	var payload adaptiveQuestionsPayload
	if err := s.generate(ctx, span, models.PredictionAdaptiveQuestions, buildAdaptiveQuestionsPrompt(facts), adaptiveQuestionsSchema, &payload); err != nil {
		return dto.AdaptiveQuestions{}, err
	}

	result := dto.AdaptiveQuestions{
		UserID:                userID,
		QuizID:                quizID,
		RecommendedDifficulty: payload.RecommendedDifficulty,
		AdaptedQuestions:      make([]dto.AdaptiveQuestion, 0, len(payload.AdaptedQuestions)),
	}
	for _, q := range payload.AdaptedQuestions {
		if !known[q.QuestionID] {
			s.logger.Warn().
				Uint("quiz_id", quizID).
				Uint("question_id", q.QuestionID).
				Msg("model adapted an unknown question, dropping")
			continue
		}
		result.AdaptedQuestions = append(result.AdaptedQuestions, dto.AdaptiveQuestion{
			QuestionID:         q.QuestionID,
			Difficulty:         q.Difficulty,
			AdaptedExplanation: q.AdaptedExplanation,
			SuggestedHints:     q.SuggestedHints,
		})
	}
	return result, nil
}

func (s *insightService) LearningPattern(ctx context.Context, userID string) (dto.LearningPattern, error) {
	ctx, span := s.startSpan(ctx, "insight.learning_pattern", userID)
	defer span.End()

	activity, err := s.activities.ListByUser(ctx, userID, activityWindow)
	if err != nil {
		return dto.LearningPattern{}, s.inputErr(span, models.PredictionLearningPattern, err)
	}

	facts := patternFacts{
		ActionCounts: make(map[string]int),
		TotalEvents:  len(activity),
	}
	for _, entry := range activity {
		facts.ActionCounts[entry.Action]++
	}

	var payload learningPatternPayload
	if err := s.generate(ctx, span, models.PredictionLearningPattern, buildLearningPatternPrompt(facts), learningPatternSchema, &payload); err != nil {
		return dto.LearningPattern{}, err
	}

	return dto.LearningPattern{
		UserID:          userID,
		LearningStyle:   payload.LearningStyle,
		Strengths:       payload.Strengths,
		Weaknesses:      payload.Weaknesses,
		Recommendations: payload.Recommendations,
	}, nil
}

func (s *insightService) AdminInsights(ctx context.Context) (dto.AdminInsights, error) {
	ctx, span := s.tracer.Start(ctx, "insight.admin_insights")
	defer span.End()

	stats, err := s.analytics.Stats(ctx)
	if err != nil {
		return dto.AdminInsights{}, s.inputErr(span, "admin_insights", err)
	}

	facts := adminFacts{
		Students:   stats.Students,
		Courses:    stats.Courses,
		Engagement: stats.Engagement,
	}

	var payload adminInsightsPayload
	if err := s.generate(ctx, span, "admin_insights", buildAdminInsightsPrompt(facts), adminInsightsSchema, &payload); err != nil {
		return dto.AdminInsights{}, err
	}

	return dto.AdminInsights{
		DropoutAlerts:          payload.DropoutAlerts,
		PerformanceInsights:    payload.PerformanceInsights,
		ContentRecommendations: payload.ContentRecommendations,
	}, nil
}

// History returns previously persisted predictions, newest first, optionally
// filtered by type.
func (s *insightService) History(ctx context.Context, userID, predictionType string) ([]models.AIPrediction, error) {
	if predictionType != "" && !models.KnownPredictionType(predictionType) {
		return nil, ErrUnknownPredictionType
	}
	return s.predictions.ListByUser(ctx, userID, predictionType)
}

// generate runs the model call plus validation plus decode for one insight
// type and records the run outcome.
func (s *insightService) generate(ctx context.Context, span trace.Span, insightType, prompt string, schema *ai.Schema, out interface{}) error {
	raw, err := s.generator.Generate(ctx, ai.Request{
		System: insightSystemPrompt,
		Prompt: prompt,
		Schema: schema,
	})
	if err != nil {
		return s.generationErr(span, insightType, err)
	}

	if err := schema.Validate(raw); err != nil {
		observability.InsightRuns().WithLabelValues(insightType, "schema_mismatch").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema mismatch")
		s.logger.Error().Err(err).Str("type", insightType).Msg("model response rejected by schema")
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		observability.InsightRuns().WithLabelValues(insightType, "schema_mismatch").Inc()
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	observability.InsightRuns().WithLabelValues(insightType, "ok").Inc()
	return nil
}

// persist writes the audit row. Failures are logged and counted but never
// fail the request: the caller already holds a validated result.
func (s *insightService) persist(ctx context.Context, userID, predictionType string, confidence float64, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		observability.InsightPersistFailures().WithLabelValues(predictionType).Inc()
		s.logger.Error().Err(err).Str("type", predictionType).Msg("prediction payload marshal failed")
		return
	}

	prediction := models.AIPrediction{
		UserID:         userID,
		PredictionType: predictionType,
		Confidence:     confidence,
		Prediction:     datatypes.JSON(raw),
	}
	if err := s.predictions.Create(ctx, &prediction); err != nil {
		observability.InsightPersistFailures().WithLabelValues(predictionType).Inc()
		s.logger.Error().Err(err).Str("type", predictionType).Str("user_id", userID).Msg("prediction row write failed")
	}
}

func (s *insightService) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("user.id", userID)))
}

func (s *insightService) inputErr(span trace.Span, insightType string, err error) error {
	observability.InsightRuns().WithLabelValues(insightType, "input_error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "input fetch failed")
	s.logger.Error().Err(err).Str("type", insightType).Msg("insight input fetch failed")
	return fmt.Errorf("%w: %v", ErrInputFetch, err)
}

func (s *insightService) generationErr(span trace.Span, insightType string, err error) error {
	observability.InsightRuns().WithLabelValues(insightType, "generation_error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "generation failed")
	s.logger.Error().Err(err).Str("type", insightType).Msg("model generation failed")
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}

// averageProgress is 0 for a student with no enrollments.
func averageProgress(enrollments []models.Enrollment) float64 {
	if len(enrollments) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range enrollments {
		sum += e.Progress
	}
	return sum / float64(len(enrollments))
}
