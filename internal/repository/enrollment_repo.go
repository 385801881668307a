package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// EnrollmentRepository persists user/course enrollments.
type EnrollmentRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	Get(ctx context.Context, userID string, courseID uint) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateProgress(ctx context.Context, userID string, courseID uint, progress float64, completedAt *time.Time) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) Get(ctx context.Context, userID string, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return enrollment, err
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) UpdateProgress(ctx context.Context, userID string, courseID uint, progress float64, completedAt *time.Time) error {
	updates := map[string]interface{}{"progress": progress}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(updates).Error
}
