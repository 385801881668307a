package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// ActivityLogRepository persists the append-only audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByUser returns the most recent entries first. Limit defaults to 100
// when non-positive, matching the pipeline's input window.
func (r *activityLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
