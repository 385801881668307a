package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// LessonRepository persists lessons and per-user lesson progress.
type LessonRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Lesson, error)
	Get(ctx context.Context, id uint) (models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	UpsertProgress(ctx context.Context, progress *models.LessonProgress) error
	CountCompleted(ctx context.Context, userID string, courseID uint) (int64, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository constructs the lesson repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) Get(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, id).Error
	return lesson, err
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&total).Error
	return total, err
}

func (r *lessonRepository) UpsertProgress(ctx context.Context, progress *models.LessonProgress) error {
	progress.LastWatchedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watch_time", "completed", "last_watched_at"}),
	}).Create(progress).Error
}

func (r *lessonRepository) CountCompleted(ctx context.Context, userID string, courseID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&total).Error
	return total, err
}
