package dto

import (
	"time"

	"github.com/noah-isme/eduspark-api/internal/repository"
)

// AdminStatsResponse aggregates platform analytics for the admin dashboard.
type AdminStatsResponse struct {
	Students    repository.StudentStats      `json:"students"`
	Courses     repository.CourseStats       `json:"courses"`
	Engagement  []repository.EngagementPoint `json:"engagement"`
	GeneratedAt time.Time                    `json:"generated_at"`
	CacheHit    bool                         `json:"cache_hit"`
}
