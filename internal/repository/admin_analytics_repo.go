package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// StudentStats summarises the learner population.
type StudentStats struct {
	TotalStudents     int64   `json:"total_students"`
	ActiveStudents    int64   `json:"active_students"`
	AvgCompletionRate float64 `json:"avg_completion_rate"`
	AtRiskStudents    int64   `json:"at_risk_students"`
}

// CourseStats summarises the catalog.
type CourseStats struct {
	TotalCourses  int64 `json:"total_courses"`
	ActiveCourses int64 `json:"active_courses"`
}

// EngagementPoint is one day of distinct-active-user counts.
type EngagementPoint struct {
	Date        string `json:"date"`
	ActiveUsers int64  `json:"active_users"`
}

// AdminAnalyticsRepository runs the aggregate queries behind the admin
// dashboard and the admin-insights prompt.
type AdminAnalyticsRepository interface {
	StudentStats(ctx context.Context) (StudentStats, error)
	CourseStats(ctx context.Context) (CourseStats, error)
	EngagementData(ctx context.Context) ([]EngagementPoint, error)
}

type adminAnalyticsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAdminAnalyticsRepository constructs the analytics repository.
func NewAdminAnalyticsRepository(db *gorm.DB) AdminAnalyticsRepository {
	return &adminAnalyticsRepository{db: db, now: time.Now}
}

func (r *adminAnalyticsRepository) StudentStats(ctx context.Context) (StudentStats, error) {
	stats := StudentStats{}

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleStudent).
		Count(&stats.TotalStudents).Error; err != nil {
		return StudentStats{}, err
	}

	// Active means at least one login event inside the last 7 days.
	cutoff := r.now().UTC().AddDate(0, 0, -7)
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("action = ? AND timestamp > ?", models.ActionLogin, cutoff).
		Distinct("user_id").
		Count(&stats.ActiveStudents).Error; err != nil {
		return StudentStats{}, err
	}

	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("AVG(progress)").
		Scan(&avg).Error; err != nil {
		return StudentStats{}, err
	}
	if avg != nil {
		stats.AvgCompletionRate = *avg
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("progress < ?", 30).
		Count(&stats.AtRiskStudents).Error; err != nil {
		return StudentStats{}, err
	}

	return stats, nil
}

func (r *adminAnalyticsRepository) CourseStats(ctx context.Context) (CourseStats, error) {
	stats := CourseStats{}

	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Count(&stats.TotalCourses).Error; err != nil {
		return CourseStats{}, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveCourses).Error; err != nil {
		return CourseStats{}, err
	}

	return stats, nil
}

func (r *adminAnalyticsRepository) EngagementData(ctx context.Context) ([]EngagementPoint, error) {
	cutoff := r.now().UTC().AddDate(0, 0, -7)

	var points []EngagementPoint
	err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Select("DATE(timestamp) AS date, COUNT(DISTINCT user_id) AS active_users").
		Where("timestamp > ?", cutoff).
		Group("DATE(timestamp)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
