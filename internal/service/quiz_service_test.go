package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/dto"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/repository"
)

func newQuizFixture(t *testing.T) (*gorm.DB, QuizService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "quiz.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.ActivityLog{},
	))

	activity := NewActivityService(repository.NewActivityLogRepository(db), nil, zerolog.Nop())
	svc := NewQuizService(repository.NewQuizRepository(db), activity, zerolog.Nop())
	return db, svc
}

func seedQuiz(t *testing.T, db *gorm.DB) models.Quiz {
	t.Helper()

	quiz := models.Quiz{CourseID: 1, Title: "Go Basics", PassingScore: 70}
	require.NoError(t, db.Create(&quiz).Error)

	questions := []models.QuizQuestion{
		{
			QuizID:        quiz.ID,
			Question:      "What starts a goroutine?",
			Type:          models.QuestionTypeMultipleChoice,
			Options:       datatypes.JSON([]byte(`["go", "run", "spawn"]`)),
			CorrectAnswer: "go",
			OrderIndex:    0,
		},
		{
			QuizID:        quiz.ID,
			Question:      "Maps are safe for concurrent writes.",
			Type:          models.QuestionTypeTrueFalse,
			CorrectAnswer: "false",
			OrderIndex:    1,
		},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return quiz
}

func TestStartAttemptRequiresQuestions(t *testing.T) {
	db, svc := newQuizFixture(t)

	quiz := models.Quiz{CourseID: 1, Title: "Empty Quiz"}
	require.NoError(t, db.Create(&quiz).Error)

	_, err := svc.StartAttempt(context.Background(), "user-1", quiz.ID)
	require.ErrorIs(t, err, ErrQuizEmpty)
}

func TestSubmitAttemptGradesExactMatch(t *testing.T) {
	db, svc := newQuizFixture(t)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(context.Background(), "user-1", quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 2, attempt.TotalQuestions)

	result, err := svc.SubmitAttempt(context.Background(), "user-1", attempt.ID, dto.QuizSubmissionRequest{
		Answers: map[string]string{
			"1": " GO ", // trimmed and case-folded before comparison
			"2": "true",
		},
		TimeSpent: 90,
	})
	require.NoError(t, err)

	require.Equal(t, 50.0, result.Score)
	require.Equal(t, 1, result.CorrectAnswers)
	require.Equal(t, 2, result.TotalQuestions)
	require.False(t, result.Passed)
	require.NotNil(t, result.CompletedAt)
}

func TestSubmitAttemptPassesAtThreshold(t *testing.T) {
	db, svc := newQuizFixture(t)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(context.Background(), "user-1", quiz.ID)
	require.NoError(t, err)

	result, err := svc.SubmitAttempt(context.Background(), "user-1", attempt.ID, dto.QuizSubmissionRequest{
		Answers: map[string]string{"1": "go", "2": "false"},
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, result.Score)
	require.True(t, result.Passed)
}

func TestSubmitAttemptRejectsForeignAttempt(t *testing.T) {
	db, svc := newQuizFixture(t)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(context.Background(), "user-1", quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), "user-2", attempt.ID, dto.QuizSubmissionRequest{
		Answers: map[string]string{"1": "go"},
	})
	require.ErrorIs(t, err, ErrAttemptOwnership)
}

func TestSubmitAttemptRejectsDoubleSubmission(t *testing.T) {
	db, svc := newQuizFixture(t)
	quiz := seedQuiz(t, db)

	attempt, err := svc.StartAttempt(context.Background(), "user-1", quiz.ID)
	require.NoError(t, err)

	submission := dto.QuizSubmissionRequest{Answers: map[string]string{"1": "go"}}
	_, err = svc.SubmitAttempt(context.Background(), "user-1", attempt.ID, submission)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), "user-1", attempt.ID, submission)
	require.ErrorIs(t, err, ErrAttemptCompleted)
}

func TestQuestionsStripAnswers(t *testing.T) {
	db, svc := newQuizFixture(t)
	quiz := seedQuiz(t, db)

	views, err := svc.Questions(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, []string{"go", "run", "spawn"}, views[0].Options)

	// The student view type has no answer field at all; make sure ordering
	// holds so clients can rely on it.
	require.Equal(t, 0, views[0].OrderIndex)
	require.Equal(t, 1, views[1].OrderIndex)
}
