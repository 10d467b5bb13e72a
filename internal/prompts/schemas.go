package prompts

import "github.com/maumlog/maumlog-backend/internal/bigfive"

// Strict json_schema builders for the structured-output call sites.
// OpenAI strict mode requires every property listed in required and
// additionalProperties:false on every object.

func EnumSchema(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func NumberSchema(min, max float64) map[string]any {
	return map[string]any{"type": "number", "minimum": min, "maximum": max}
}

func IntSchema(min, max int) map[string]any {
	return map[string]any{"type": "integer", "minimum": min, "maximum": max}
}

func StringArraySchema(maxItems int) map[string]any {
	s := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	if maxItems > 0 {
		s["maxItems"] = maxItems
	}
	return s
}

// LikertBatchSchema requires exactly 20 integer ratings in [1,5], one per
// inventory item in the batch sent with the prompt.
func LikertBatchSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ratings": map[string]any{
				"type":     "array",
				"items":    IntSchema(1, 5),
				"minItems": 20,
				"maxItems": 20,
			},
		},
		"required":             []string{"ratings"},
		"additionalProperties": false,
	}
}

// ValueTagSchema is one tagged value surfaced from an answer.
func ValueTagSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":   EnumSchema(bigfive.Axes...),
			"value":      EnumSchema(bigfive.AllFacets()...),
			"confidence": NumberSchema(0, 1),
			"intensity":  NumberSchema(0, 1),
			"polarity":   IntSchema(-1, 1),
			"evidence":   StringArraySchema(2),
		},
		"required":             []string{"category", "value", "confidence", "intensity", "polarity", "evidence"},
		"additionalProperties": false,
	}
}

// ValueTagsSchema wraps 0..6 value tags for one (question, answer) pair.
func ValueTagsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"values": map[string]any{
				"type":     "array",
				"items":    ValueTagSchema(),
				"minItems": 0,
				"maxItems": 6,
			},
		},
		"required":             []string{"values"},
		"additionalProperties": false,
	}
}

// OppositeValueSchema names the positive antonym of a negatively-expressed
// value, staying inside the same category.
func OppositeValueSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"opposite": map[string]any{"type": "string"},
		},
		"required":             []string{"opposite"},
		"additionalProperties": false,
	}
}

// ValueMapCommentarySchema carries the regenerated value-map commentary:
// one summary sentence plus a short personality insight, both in Korean.
func ValueMapCommentarySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"comment":             map[string]any{"type": "string"},
			"personality_insight": map[string]any{"type": "string"},
		},
		"required":             []string{"comment", "personality_insight"},
		"additionalProperties": false,
	}
}
