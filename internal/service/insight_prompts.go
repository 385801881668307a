package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/eduspark-api/internal/repository"
)

// Prompt builders are pure: identical facts render byte-identical prompts.
// Inputs are validated by the orchestrator; builders only format.

const insightSystemPrompt = "You are the analytics assistant for an online learning platform. " +
	"Ground every answer strictly in the data provided and respond with JSON when a schema is given."

type dropoutFacts struct {
	Enrollments    int
	AvgProgress    float64
	RecentActivity int
	TotalActivity  int
	LastLogin      string
}

func buildDropoutRiskPrompt(facts dropoutFacts) string {
	b := strings.Builder{}
	b.WriteString("Analyze this student's learning data and predict their dropout risk:\n\n")
	b.WriteString("Student Data:\n")
	b.WriteString("- Total enrolled courses: ")
	b.WriteString(strconv.Itoa(facts.Enrollments))
	b.WriteString("\n- Average progress across courses: ")
	b.WriteString(formatDecimal(facts.AvgProgress))
	b.WriteString("%\n- Recent activity (last 7 days): ")
	b.WriteString(strconv.Itoa(facts.RecentActivity))
	b.WriteString(" actions\n- Total activity: ")
	b.WriteString(strconv.Itoa(facts.TotalActivity))
	b.WriteString(" actions\n- Last login: ")
	b.WriteString(facts.LastLogin)
	b.WriteString("\n\nConsider factors like:\n")
	b.WriteString("- Low activity levels\n")
	b.WriteString("- Declining engagement\n")
	b.WriteString("- Low completion rates\n")
	b.WriteString("- Irregular login patterns\n")
	return b.String()
}

type performanceFacts struct {
	Progress   float64
	QuizCount  int
	EnrolledAt time.Time
}

func buildPerformancePrompt(facts performanceFacts) string {
	b := strings.Builder{}
	b.WriteString("Analyze this student's performance in their current course and predict their future performance:\n\n")
	b.WriteString("Student Performance Data:\n")
	b.WriteString("- Current progress: ")
	b.WriteString(formatDecimal(facts.Progress))
	b.WriteString("%\n- Number of quizzes available: ")
	b.WriteString(strconv.Itoa(facts.QuizCount))
	b.WriteString("\n- Enrollment date: ")
	b.WriteString(facts.EnrolledAt.UTC().Format("2006-01-02"))
	b.WriteString("\n\nBase your prediction on the student's current progress and engagement patterns.\n")
	return b.String()
}

type enrollmentFact struct {
	CourseID uint
	Progress float64
}

type courseFact struct {
	ID         uint
	Title      string
	Category   string
	Difficulty string
}

func buildRecommendationsPrompt(enrolled []enrollmentFact, available []courseFact) string {
	b := strings.Builder{}
	b.WriteString("Generate personalized course recommendations for this student:\n\n")
	b.WriteString("Student's Current Enrollments:\n")
	if len(enrolled) == 0 {
		b.WriteString("- none\n")
	}
	for _, e := range enrolled {
		b.WriteString("- Course ID: ")
		b.WriteString(strconv.FormatUint(uint64(e.CourseID), 10))
		b.WriteString(", Progress: ")
		b.WriteString(formatDecimal(e.Progress))
		b.WriteString("%\n")
	}
	b.WriteString("\nAvailable Courses:\n")
	for _, c := range available {
		b.WriteString("- ID: ")
		b.WriteString(strconv.FormatUint(uint64(c.ID), 10))
		b.WriteString(", Title: ")
		b.WriteString(c.Title)
		b.WriteString(", Category: ")
		b.WriteString(c.Category)
		b.WriteString(", Difficulty: ")
		b.WriteString(c.Difficulty)
		b.WriteString("\n")
	}
	b.WriteString("\nRecommend up to 3 of the available courses. Consider:\n")
	b.WriteString("- Student's current interests based on enrolled courses\n")
	b.WriteString("- Skill progression (beginner to advanced)\n")
	b.WriteString("- Course categories and difficulty levels\n")
	return b.String()
}

type learningPathFacts struct {
	CurrentTitle      string
	CurrentCategory   string
	CurrentDifficulty string
	Progress          float64
	Others            []courseFact
}

func buildLearningPathPrompt(facts learningPathFacts) string {
	b := strings.Builder{}
	b.WriteString("Suggest the next course in the learning path for this student:\n\n")
	b.WriteString("Current Course: ")
	b.WriteString(facts.CurrentTitle)
	b.WriteString(" (")
	b.WriteString(facts.CurrentCategory)
	b.WriteString(", ")
	b.WriteString(facts.CurrentDifficulty)
	b.WriteString(")\nCurrent Progress: ")
	b.WriteString(formatDecimal(facts.Progress))
	b.WriteString("%\n\nAvailable Courses:\n")
	for _, c := range facts.Others {
		b.WriteString("- ")
		b.WriteString(c.Title)
		b.WriteString(" (")
		b.WriteString(c.Category)
		b.WriteString(", ")
		b.WriteString(c.Difficulty)
		b.WriteString(")\n")
	}
	b.WriteString("\nConsider logical skill progression and related topics.\n")
	return b.String()
}

type quizHintFacts struct {
	Question   string
	Options    []string
	UserAnswer string
}

func buildQuizHintPrompt(facts quizHintFacts) string {
	b := strings.Builder{}
	b.WriteString("Provide a helpful hint for this quiz question without giving away the answer:\n\n")
	b.WriteString("Question: ")
	b.WriteString(facts.Question)
	b.WriteString("\nOptions: ")
	b.WriteString(strings.Join(facts.Options, ", "))
	if facts.UserAnswer != "" {
		b.WriteString("\nStudent's answer: ")
		b.WriteString(facts.UserAnswer)
	}
	b.WriteString("\n\nGive a hint that guides the student toward the correct thinking without revealing the answer directly. ")
	b.WriteString("Keep it concise and encouraging.\n")
	return b.String()
}

type adminFacts struct {
	Students   repository.StudentStats
	Courses    repository.CourseStats
	Engagement []repository.EngagementPoint
}

func buildAdminInsightsPrompt(facts adminFacts) string {
	b := strings.Builder{}
	b.WriteString("Generate administrative insights based on platform analytics:\n\n")
	b.WriteString("Student Statistics:\n")
	b.WriteString("- Total students: ")
	b.WriteString(strconv.FormatInt(facts.Students.TotalStudents, 10))
	b.WriteString("\n- Active students: ")
	b.WriteString(strconv.FormatInt(facts.Students.ActiveStudents, 10))
	b.WriteString("\n- Average completion rate: ")
	b.WriteString(formatDecimal(facts.Students.AvgCompletionRate))
	b.WriteString("%\n- At-risk students: ")
	b.WriteString(strconv.FormatInt(facts.Students.AtRiskStudents, 10))
	b.WriteString("\n\nCourse Statistics:\n")
	b.WriteString("- Total courses: ")
	b.WriteString(strconv.FormatInt(facts.Courses.TotalCourses, 10))
	b.WriteString("\n- Active courses: ")
	b.WriteString(strconv.FormatInt(facts.Courses.ActiveCourses, 10))
	b.WriteString("\n\nRecent Engagement:\n")
	if len(facts.Engagement) == 0 {
		b.WriteString("- no activity recorded\n")
	}
	for _, point := range facts.Engagement {
		b.WriteString("- ")
		b.WriteString(point.Date)
		b.WriteString(": ")
		b.WriteString(strconv.FormatInt(point.ActiveUsers, 10))
		b.WriteString(" active users\n")
	}
	b.WriteString("\nFocus on actionable insights for administrators.\n")
	return b.String()
}

type adaptiveFacts struct {
	QuizTitle    string
	AttemptCount int
	AvgScore     float64
	Questions    []adaptiveQuestionFact
}

type adaptiveQuestionFact struct {
	ID       uint
	Type     string
	Question string
}

func buildAdaptiveQuestionsPrompt(facts adaptiveFacts) string {
	b := strings.Builder{}
	b.WriteString("Customize the questions of this quiz to the student's demonstrated level:\n\n")
	b.WriteString("Quiz: ")
	b.WriteString(facts.QuizTitle)
	b.WriteString("\nPerformance history: ")
	if facts.AttemptCount == 0 {
		b.WriteString("This is the student's first attempt.")
	} else {
		b.WriteString("Student has completed ")
		b.WriteString(strconv.Itoa(facts.AttemptCount))
		b.WriteString(" previous attempts with an average score of ")
		b.WriteString(formatDecimal(facts.AvgScore))
		b.WriteString("%.")
	}
	b.WriteString("\n\nQuestions:\n")
	for _, q := range facts.Questions {
		b.WriteString("- ID ")
		b.WriteString(strconv.FormatUint(uint64(q.ID), 10))
		b.WriteString(" (")
		b.WriteString(q.Type)
		b.WriteString("): ")
		b.WriteString(q.Question)
		b.WriteString("\n")
	}
	b.WriteString("\nRecommend an appropriate difficulty level for the student, ")
	b.WriteString("and for each question provide an explanation adapted to that level plus helpful hints.\n")
	return b.String()
}

type patternFacts struct {
	ActionCounts map[string]int
	TotalEvents  int
}

func buildLearningPatternPrompt(facts patternFacts) string {
	b := strings.Builder{}
	b.WriteString("Analyze the learning patterns behind this student's recent activity and describe their learning style, ")
	b.WriteString("strengths, weaknesses, and personalized recommendations for improvement.\n\n")
	b.WriteString("Recent activity (most recent ")
	b.WriteString(strconv.Itoa(facts.TotalEvents))
	b.WriteString(" events):\n")
	if len(facts.ActionCounts) == 0 {
		b.WriteString("- no activity recorded\n")
	}

	actions := make([]string, 0, len(facts.ActionCounts))
	for action := range facts.ActionCounts {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		b.WriteString("- ")
		b.WriteString(action)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(facts.ActionCounts[action]))
		b.WriteString(" events\n")
	}

	b.WriteString("\nConsider quiz performance trends, time spent on different topics, ")
	b.WriteString("common mistake patterns, and engagement levels.\n")
	return b.String()
}

// formatDecimal renders a float with at most two decimal places and no
// trailing zeros, so 50.0 renders as "50" and 33.333 as "33.33". Formatting
// is locale independent.
func formatDecimal(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
