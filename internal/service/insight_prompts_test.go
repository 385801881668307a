package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildDropoutRiskPromptIsDeterministic(t *testing.T) {
	facts := dropoutFacts{
		Enrollments:    2,
		AvgProgress:    33.333,
		RecentActivity: 5,
		TotalActivity:  40,
		LastLogin:      "2026-08-28",
	}

	first := buildDropoutRiskPrompt(facts)
	second := buildDropoutRiskPrompt(facts)
	require.Equal(t, first, second)
	require.Contains(t, first, "- Average progress across courses: 33.33%")
	require.Contains(t, first, "- Recent activity (last 7 days): 5 actions")
	require.Contains(t, first, "- Last login: 2026-08-28")
}

func TestBuildPerformancePromptFormatsDate(t *testing.T) {
	prompt := buildPerformancePrompt(performanceFacts{
		Progress:   62.5,
		QuizCount:  3,
		EnrolledAt: time.Date(2026, 5, 14, 22, 30, 0, 0, time.UTC),
	})
	require.Contains(t, prompt, "- Current progress: 62.5%")
	require.Contains(t, prompt, "- Enrollment date: 2026-05-14")
}

func TestBuildRecommendationsPromptListsCourses(t *testing.T) {
	prompt := buildRecommendationsPrompt(
		[]enrollmentFact{{CourseID: 7, Progress: 50}},
		[]courseFact{{ID: 9, Title: "Kubernetes Basics", Category: "ops", Difficulty: "beginner"}},
	)
	require.Contains(t, prompt, "- Course ID: 7, Progress: 50%")
	require.Contains(t, prompt, "- ID: 9, Title: Kubernetes Basics, Category: ops, Difficulty: beginner")
}

func TestBuildLearningPatternPromptSortsActions(t *testing.T) {
	prompt := buildLearningPatternPrompt(patternFacts{
		ActionCounts: map[string]int{"quiz_completed": 1, "login": 4},
		TotalEvents:  5,
	})
	second := buildLearningPatternPrompt(patternFacts{
		ActionCounts: map[string]int{"login": 4, "quiz_completed": 1},
		TotalEvents:  5,
	})
	require.Equal(t, prompt, second)
	require.Contains(t, prompt, "- login: 4 events")
	require.Contains(t, prompt, "- quiz_completed: 1 events")
}

func TestFormatDecimal(t *testing.T) {
	require.Equal(t, "50", formatDecimal(50.0))
	require.Equal(t, "33.33", formatDecimal(33.333))
	require.Equal(t, "0", formatDecimal(0))
	require.Equal(t, "99.99", formatDecimal(99.994))
}
