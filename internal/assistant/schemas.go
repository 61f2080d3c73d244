package assistant

import (
	"strconv"

	"github.com/campusai/teachassist/internal/llm"
)

const quizQuestionCount = 5

func quizSchema(n int) *llm.Schema {
	return &llm.Schema{
		Name:        "quiz_questions_" + strconv.Itoa(n),
		Description: "Multiple-choice questions with exactly four options and a 0-based answer index.",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": n,
					"maxItems": n,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":       map[string]any{"type": "integer"},
							"question": map[string]any{"type": "string"},
							"options": map[string]any{
								"type":     "array",
								"minItems": 4,
								"maxItems": 4,
								"items":    map[string]any{"type": "string"},
							},
							"answer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						},
						"required":             []string{"id", "question", "options", "answer"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"questions"},
			"additionalProperties": false,
		},
	}
}

var planSchema = &llm.Schema{
	Name:        "retrieval_plan",
	Description: "Two or three focused sub-queries for syllabus retrieval.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"queries": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 3,
				"items":    map[string]any{"type": "string"},
			},
		},
		"required":             []string{"queries"},
		"additionalProperties": false,
	},
}

var evaluationSchema = &llm.Schema{
	Name:        "answer_evaluation",
	Description: "Whether an answer sufficiently addresses its question.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sufficient":       map[string]any{"type": "boolean"},
			"missing_info":     map[string]any{"type": "string"},
			"refinement_query": map[string]any{"type": "string"},
		},
		"required":             []string{"sufficient", "missing_info", "refinement_query"},
		"additionalProperties": false,
	},
}
