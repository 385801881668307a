package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity actions recorded by the platform.
const (
	ActionLogin           = "login"
	ActionCourseCreated   = "course_created"
	ActionCourseEnrolled  = "course_enrolled"
	ActionLessonProgress  = "lesson_progress"
	ActionLessonCompleted = "lesson_completed"
	ActionQuizStarted     = "quiz_started"
	ActionQuizCompleted   = "quiz_completed"
)

// ActivityLog is an append-only audit row. Rows are never mutated or
// deleted; the insight pipeline reads them in most-recent-first order.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     string            `gorm:"size:64;index" json:"user_id"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:32" json:"entity_type"`
	EntityID   uint              `json:"entity_id"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	Timestamp  time.Time         `gorm:"index;autoCreateTime" json:"timestamp"`
}
