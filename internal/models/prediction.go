package models

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction types persisted by the insight pipeline.
const (
	PredictionDropoutRisk       = "dropout_risk"
	PredictionPerformance       = "performance_prediction"
	PredictionRecommendation    = "content_recommendation"
	PredictionLearningPath      = "learning_path"
	PredictionAdaptiveQuestions = "adaptive_questions"
	PredictionLearningPattern   = "learning_pattern"
)

// KnownPredictionType reports whether t is one of the persisted prediction
// type constants.
func KnownPredictionType(t string) bool {
	switch t {
	case PredictionDropoutRisk, PredictionPerformance, PredictionRecommendation,
		PredictionLearningPath, PredictionAdaptiveQuestions, PredictionLearningPattern:
		return true
	}
	return false
}

// AIPrediction is the immutable audit record written once per successful
// insight run. Confidence is always within [0,1]; Prediction holds the full
// validated payload for later re-display.
type AIPrediction struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         string         `gorm:"size:64;index" json:"user_id"`
	PredictionType string         `gorm:"size:64;not null;index" json:"prediction_type"`
	Confidence     float64        `gorm:"type:decimal(5,2)" json:"confidence"`
	Prediction     datatypes.JSON `json:"prediction"`
	CreatedAt      time.Time      `json:"created_at"`
}
