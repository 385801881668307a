package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test_assessment",
		Definition: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"level": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"low", "medium", "high"},
				},
				"confidence": map[string]interface{}{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
				"notes": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			"required": []interface{}{"level", "confidence", "notes"},
		},
	}
}

func TestSchemaValidateAccepts(t *testing.T) {
	err := testSchema().Validate(`{"level": "low", "confidence": 0.4, "notes": ["ok"]}`)
	require.NoError(t, err)
}

func TestSchemaValidateRejectsMissingField(t *testing.T) {
	err := testSchema().Validate(`{"confidence": 0.4, "notes": []}`)
	require.Error(t, err)
}

func TestSchemaValidateRejectsEnumViolation(t *testing.T) {
	err := testSchema().Validate(`{"level": "extreme", "confidence": 0.4, "notes": []}`)
	require.Error(t, err)
}

func TestSchemaValidateRejectsOutOfRange(t *testing.T) {
	err := testSchema().Validate(`{"level": "low", "confidence": 1.2, "notes": []}`)
	require.Error(t, err)
}

func TestSchemaValidateRejectsNonJSON(t *testing.T) {
	err := testSchema().Validate("not json at all")
	require.Error(t, err)
}

func TestPromptInstructionsRendersDefinition(t *testing.T) {
	instructions := testSchema().PromptInstructions()
	require.Contains(t, instructions, `"required"`)
	require.Contains(t, instructions, `"enum"`)
}

func TestCleanJSONBlockStripsFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, cleanJSONBlock("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, cleanJSONBlock("{\"a\":1}"))
}
