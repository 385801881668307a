package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// QuizRepository persists quizzes, questions and attempts.
type QuizRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error)
	Get(ctx context.Context, id uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	ListQuestions(ctx context.Context, quizID uint) ([]models.QuizQuestion, error)
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	ListAttempts(ctx context.Context, userID string, quizID uint) ([]models.QuizAttempt, error)
	GetAttempt(ctx context.Context, id uint) (models.QuizAttempt, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	UpdateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs the quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) Get(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).First(&quiz, id).Error
	return quiz, err
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) ListQuestions(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error
	return questions, err
}

func (r *quizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *quizRepository) ListAttempts(ctx context.Context, userID string, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizRepository) GetAttempt(ctx context.Context, id uint) (models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.WithContext(ctx).First(&attempt, id).Error
	return attempt, err
}

func (r *quizRepository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *quizRepository) UpdateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}
