package service

import "github.com/noah-isme/eduspark-api/pkg/ai"

// Declared response schemas, one per insight type. The validator rejects
// any generation output that is missing a required field, mistypes one, or
// reports a confidence outside [0,1], before anything reaches persistence.

func stringArray() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
}

func confidenceNumber() map[string]interface{} {
	return map[string]interface{}{
		"type":    "number",
		"minimum": 0,
		"maximum": 1,
	}
}

var dropoutRiskSchema = &ai.Schema{
	Name: "dropout_risk",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"riskLevel": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"low", "medium", "high"},
			},
			"confidence":      confidenceNumber(),
			"factors":         stringArray(),
			"recommendations": stringArray(),
		},
		"required": []interface{}{"riskLevel", "confidence", "factors", "recommendations"},
	},
}

var performanceSchema = &ai.Schema{
	Name: "performance_prediction",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"predictedScore": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
			"confidence":      confidenceNumber(),
			"strengths":       stringArray(),
			"weaknesses":      stringArray(),
			"recommendations": stringArray(),
		},
		"required": []interface{}{"predictedScore", "confidence", "strengths", "weaknesses", "recommendations"},
	},
}

var recommendationsSchema = &ai.Schema{
	Name: "content_recommendations",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"recommendations": map[string]interface{}{
				"type":     "array",
				"maxItems": 3,
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"courseId":    map[string]interface{}{"type": "integer"},
						"title":       map[string]interface{}{"type": "string"},
						"description": map[string]interface{}{"type": "string"},
						"reason":      map[string]interface{}{"type": "string"},
						"confidence":  confidenceNumber(),
					},
					"required": []interface{}{"courseId", "title", "description", "reason", "confidence"},
				},
			},
		},
		"required": []interface{}{"recommendations"},
	},
}

var learningPathSchema = &ai.Schema{
	Name: "learning_path",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"nextCourse": map[string]interface{}{"type": "string"},
			"reason":     map[string]interface{}{"type": "string"},
			"confidence": confidenceNumber(),
		},
		"required": []interface{}{"nextCourse", "reason", "confidence"},
	},
}

var adminInsightsSchema = &ai.Schema{
	Name: "admin_insights",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"dropoutAlerts":          stringArray(),
			"performanceInsights":    stringArray(),
			"contentRecommendations": stringArray(),
		},
		"required": []interface{}{"dropoutAlerts", "performanceInsights", "contentRecommendations"},
	},
}

var adaptiveQuestionsSchema = &ai.Schema{
	Name: "adaptive_questions",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"recommendedDifficulty": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"beginner", "intermediate", "advanced"},
			},
			"adaptedQuestions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"questionId": map[string]interface{}{"type": "integer"},
						"difficulty": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{"beginner", "intermediate", "advanced"},
						},
						"adaptedExplanation": map[string]interface{}{"type": "string"},
						"suggestedHints":     stringArray(),
					},
					"required": []interface{}{"questionId", "difficulty", "adaptedExplanation", "suggestedHints"},
				},
			},
		},
		"required": []interface{}{"recommendedDifficulty", "adaptedQuestions"},
	},
}

var learningPatternSchema = &ai.Schema{
	Name: "learning_pattern",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"learningStyle":   map[string]interface{}{"type": "string"},
			"strengths":       stringArray(),
			"weaknesses":      stringArray(),
			"recommendations": stringArray(),
		},
		"required": []interface{}{"learningStyle", "strengths", "weaknesses", "recommendations"},
	},
}
