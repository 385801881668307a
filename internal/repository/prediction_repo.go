package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// PredictionRepository appends immutable AI prediction audit rows.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.AIPrediction) error
	ListByUser(ctx context.Context, userID, predictionType string) ([]models.AIPrediction, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository constructs the prediction repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *models.AIPrediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID, predictionType string) ([]models.AIPrediction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if predictionType != "" {
		query = query.Where("prediction_type = ?", predictionType)
	}

	var predictions []models.AIPrediction
	err := query.Order("created_at DESC").Find(&predictions).Error
	return predictions, err
}
