package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

// Quiz attempt failures.
var (
	ErrAttemptCompleted = errors.New("quiz: attempt is already completed")
	ErrAttemptOwnership = errors.New("quiz: attempt belongs to another user")
	ErrQuizEmpty        = errors.New("quiz: quiz has no questions")
)

// QuizService serves quizzes to students and grades their attempts.
type QuizService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error)
	Get(ctx context.Context, id uint) (models.Quiz, error)
	Questions(ctx context.Context, quizID uint) ([]dto.QuizQuestionView, error)
	StartAttempt(ctx context.Context, userID string, quizID uint) (models.QuizAttempt, error)
	SubmitAttempt(ctx context.Context, userID string, attemptID uint, req dto.QuizSubmissionRequest) (dto.QuizAttemptResponse, error)
}

type quizService struct {
	quizzes  repository.QuizRepository
	activity ActivityService
	logger   zerolog.Logger
	now      func() time.Time
}

// NewQuizService constructs the quiz service.
func NewQuizService(quizzes repository.QuizRepository, activity ActivityService, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:  quizzes,
		activity: activity,
		logger:   logger.With().Str("component", "quiz").Logger(),
		now:      time.Now,
	}
}

func (s *quizService) ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	return s.quizzes.ListByCourse(ctx, courseID)
}

func (s *quizService) Get(ctx context.Context, id uint) (models.Quiz, error) {
	return s.quizzes.Get(ctx, id)
}

// Questions returns the student-facing views: correct answers and
// explanations never leave the server before grading.
func (s *quizService) Questions(ctx context.Context, quizID uint) ([]dto.QuizQuestionView, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}

	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	views := make([]dto.QuizQuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, dto.NewQuizQuestionView(q))
	}
	return views, nil
}

func (s *quizService) StartAttempt(ctx context.Context, userID string, quizID uint) (models.QuizAttempt, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return models.QuizAttempt{}, err
	}
	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return models.QuizAttempt{}, err
	}
	if len(questions) == 0 {
		return models.QuizAttempt{}, ErrQuizEmpty
	}

	attempt := models.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		TotalQuestions: len(questions),
	}
	if err := s.quizzes.CreateAttempt(ctx, &attempt); err != nil {
		return models.QuizAttempt{}, err
	}

	if err := s.activity.Record(ctx, userID, models.ActionQuizStarted, "quiz", quizID, nil); err != nil {
		s.logger.Warn().Err(err).Uint("quiz_id", quizID).Msg("quiz start audit failed")
	}
	return attempt, nil
}

// SubmitAttempt grades by exact match after trimming and lowercasing, which
// covers multiple choice, true/false and short answers alike. Score is a
// percentage rounded to two decimals.
func (s *quizService) SubmitAttempt(ctx context.Context, userID string, attemptID uint, req dto.QuizSubmissionRequest) (dto.QuizAttemptResponse, error) {
	attempt, err := s.quizzes.GetAttempt(ctx, attemptID)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}
	if attempt.UserID != userID {
		return dto.QuizAttemptResponse{}, ErrAttemptOwnership
	}
	if attempt.CompletedAt != nil {
		return dto.QuizAttemptResponse{}, ErrAttemptCompleted
	}

	quiz, err := s.quizzes.Get(ctx, attempt.QuizID)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}
	questions, err := s.quizzes.ListQuestions(ctx, attempt.QuizID)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}
	if len(questions) == 0 {
		return dto.QuizAttemptResponse{}, ErrQuizEmpty
	}

	correct := 0
	answers := make(map[string]interface{}, len(req.Answers))
	for _, q := range questions {
		key := strconv.FormatUint(uint64(q.ID), 10)
		given, ok := req.Answers[key]
		if !ok {
			continue
		}
		answers[key] = given
		if normalizeAnswer(given) == normalizeAnswer(q.CorrectAnswer) {
			correct++
		}
	}

	score := math.Round(float64(correct)/float64(len(questions))*10000) / 100
	completedAt := s.now().UTC()

	attempt.Score = &score
	attempt.TotalQuestions = len(questions)
	attempt.CorrectAnswers = correct
	attempt.TimeSpent = req.TimeSpent
	attempt.CompletedAt = &completedAt
	attempt.Answers = answers
	if err := s.quizzes.UpdateAttempt(ctx, &attempt); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	if err := s.activity.Record(ctx, userID, models.ActionQuizCompleted, "quiz", attempt.QuizID, map[string]interface{}{
		"score": score,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("quiz_id", attempt.QuizID).Msg("quiz completion audit failed")
	}

	return dto.QuizAttemptResponse{
		AttemptID:      attempt.ID,
		QuizID:         attempt.QuizID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Passed:         score >= float64(quiz.PassingScore),
		CompletedAt:    attempt.CompletedAt,
	}, nil
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
