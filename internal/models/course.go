package models

import "time"

// Course difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Course is a published unit of study containing ordered lessons and quizzes.
type Course struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	InstructorID  string    `gorm:"size:64;index" json:"instructor_id"`
	ThumbnailURL  string    `gorm:"size:512" json:"thumbnail_url"`
	Difficulty    string    `gorm:"size:32" json:"difficulty"`
	Category      string    `gorm:"size:128" json:"category"`
	TotalLessons  int       `gorm:"default:0" json:"total_lessons"`
	TotalDuration int       `gorm:"default:0" json:"total_duration"` // minutes
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
