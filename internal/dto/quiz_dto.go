package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/eduspark-api/internal/models"
)

// QuizQuestionView is a question as shown to a student taking the quiz: the
// correct answer and explanation are stripped.
type QuizQuestionView struct {
	ID         uint     `json:"id"`
	Question   string   `json:"question"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	OrderIndex int      `json:"order_index"`
}

// NewQuizQuestionView builds the student-facing view of a question.
func NewQuizQuestionView(question models.QuizQuestion) QuizQuestionView {
	var options []string
	if len(question.Options) > 0 {
		_ = json.Unmarshal(question.Options, &options)
	}

	return QuizQuestionView{
		ID:         question.ID,
		Question:   question.Question,
		Type:       question.Type,
		Options:    options,
		OrderIndex: question.OrderIndex,
	}
}

// QuizSubmissionRequest completes an attempt: answers keyed by question ID.
type QuizSubmissionRequest struct {
	Answers   map[string]string `json:"answers" validate:"required,min=1"`
	TimeSpent int               `json:"time_spent" validate:"gte=0"`
}

// QuizAttemptResponse is the graded outcome of a submission.
type QuizAttemptResponse struct {
	AttemptID      uint       `json:"attempt_id"`
	QuizID         uint       `json:"quiz_id"`
	Score          float64    `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions"`
	Passed         bool       `json:"passed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
