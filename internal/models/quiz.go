package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question types.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

// Quiz is an assessment attached to a course and optionally a lesson.
type Quiz struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CourseID       uint      `gorm:"index;not null" json:"course_id"`
	LessonID       *uint     `gorm:"index" json:"lesson_id,omitempty"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	TotalQuestions int       `gorm:"default:0" json:"total_questions"`
	PassingScore   int       `gorm:"default:70" json:"passing_score"`
	TimeLimit      *int      `json:"time_limit,omitempty"` // minutes
	CreatedAt      time.Time `json:"created_at"`
}

// QuizQuestion is a single question belonging to a quiz. Options holds the
// choice list for multiple-choice questions as a JSON array.
type QuizQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	QuizID        uint           `gorm:"index;not null" json:"quiz_id"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Type          string         `gorm:"size:32;default:multiple_choice" json:"type"`
	Options       datatypes.JSON `json:"options,omitempty"`
	CorrectAnswer string         `gorm:"type:text;not null" json:"correct_answer,omitempty"`
	Explanation   string         `gorm:"type:text" json:"explanation,omitempty"`
	OrderIndex    int            `json:"order_index"`
}

// QuizAttempt records one run through a quiz, including the raw answers map
// so attempts can be audited and re-displayed.
type QuizAttempt struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	UserID         string            `gorm:"size:64;index" json:"user_id"`
	QuizID         uint              `gorm:"index" json:"quiz_id"`
	Score          *float64          `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	TimeSpent      int               `json:"time_spent"` // seconds
	StartedAt      time.Time         `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	Answers        datatypes.JSONMap `json:"answers,omitempty"`
}
