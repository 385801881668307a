package models

import "time"

// Lesson is a single video lesson inside a course.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"index;not null" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VideoURL    string    `gorm:"size:512" json:"video_url"`
	Duration    int       `gorm:"default:0" json:"duration"` // minutes
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// LessonProgress tracks a user's watch state for one lesson. One row per
// (user, lesson) pair, upserted on every progress report.
type LessonProgress struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:64;uniqueIndex:idx_lesson_progress_user_lesson" json:"user_id"`
	LessonID      uint      `gorm:"uniqueIndex:idx_lesson_progress_user_lesson" json:"lesson_id"`
	CourseID      uint      `gorm:"index" json:"course_id"`
	WatchTime     int       `gorm:"default:0" json:"watch_time"` // seconds
	Completed     bool      `gorm:"default:false" json:"completed"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}
