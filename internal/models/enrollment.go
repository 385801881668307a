package models

import "time"

// Enrollment links a user to a course. Uniqueness of (user, course) is
// enforced at the storage layer; Progress is a 0-100 percentage.
type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"size:64;uniqueIndex:idx_enrollments_user_course" json:"user_id"`
	CourseID    uint       `gorm:"uniqueIndex:idx_enrollments_user_course" json:"course_id"`
	Progress    float64    `gorm:"type:decimal(5,2);default:0" json:"progress"`
	EnrolledAt  time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
