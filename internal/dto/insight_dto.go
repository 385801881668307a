package dto

// DropoutRiskPrediction is the validated output of the dropout-risk
// orchestrator. Confidence is always within [0,1].
type DropoutRiskPrediction struct {
	UserID          string   `json:"user_id"`
	RiskLevel       string   `json:"risk_level"`
	Confidence      float64  `json:"confidence"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// PerformancePrediction forecasts a student's score in one course.
type PerformancePrediction struct {
	UserID          string   `json:"user_id"`
	CourseID        uint     `json:"course_id"`
	PredictedScore  float64  `json:"predicted_score"`
	Confidence      float64  `json:"confidence"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// ContentRecommendation is one suggested course the user is not enrolled in.
type ContentRecommendation struct {
	UserID      string  `json:"user_id"`
	CourseID    uint    `json:"course_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
}

// LearningPathSuggestion names the next course after the current one.
type LearningPathSuggestion struct {
	UserID        string  `json:"user_id"`
	CurrentCourse string  `json:"current_course"`
	NextCourse    string  `json:"next_course"`
	Reason        string  `json:"reason"`
	Confidence    float64 `json:"confidence"`
}

// QuizHintRequest asks for a hint on one question without revealing the answer.
type QuizHintRequest struct {
	Question   string   `json:"question" validate:"required"`
	Options    []string `json:"options" validate:"required,min=1"`
	UserAnswer string   `json:"user_answer,omitempty"`
}

// QuizHintResponse carries the free-text hint.
type QuizHintResponse struct {
	Hint string `json:"hint"`
}

// AdminInsights is the aggregate guidance shown on the admin dashboard.
type AdminInsights struct {
	DropoutAlerts          []string `json:"dropout_alerts"`
	PerformanceInsights    []string `json:"performance_insights"`
	ContentRecommendations []string `json:"content_recommendations"`
}

// AdaptiveQuestion is one question reshaped to the student's level.
type AdaptiveQuestion struct {
	QuestionID         uint     `json:"question_id"`
	Difficulty         string   `json:"difficulty"`
	AdaptedExplanation string   `json:"adapted_explanation"`
	SuggestedHints     []string `json:"suggested_hints"`
}

// AdaptiveQuestions carries the difficulty recommendation plus the reshaped
// question list for one quiz.
type AdaptiveQuestions struct {
	UserID                string             `json:"user_id"`
	QuizID                uint               `json:"quiz_id"`
	RecommendedDifficulty string             `json:"recommended_difficulty"`
	AdaptedQuestions      []AdaptiveQuestion `json:"adapted_questions"`
}

// LearningPattern describes a student's inferred learning style.
type LearningPattern struct {
	UserID          string   `json:"user_id"`
	LearningStyle   string   `json:"learning_style"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}
