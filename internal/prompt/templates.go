package prompt

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/tailor.md
var tailorPromptRaw string

//go:embed prompts/enhance.md
var enhancePromptRaw string

//go:embed prompts/predict.md
var predictPromptRaw string

// Parsed once at package init; reused on every Build call.
var (
	tailorTemplate  = template.Must(template.New("tailor").Parse(tailorPromptRaw))
	enhanceTemplate = template.Must(template.New("enhance").Parse(enhancePromptRaw))
	predictTemplate = template.Must(template.New("predict").Parse(predictPromptRaw))
)

// tailorSchema mirrors the JSON object requested by the tailor prompt.
var tailorSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"tailoredCv":  map[string]any{"type": "string"},
		"coverLetter": map[string]any{"type": "string"},
		"atsScore":    map[string]any{"type": "integer"},
		"suggestions": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 1,
		},
	},
	"required": []string{"tailoredCv", "coverLetter", "atsScore", "suggestions"},
}

var questionList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// predictSchema mirrors the JSON object requested by the predict prompt.
var predictSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"behavioral":  questionList,
		"technical":   questionList,
		"situational": questionList,
	},
	"required": []string{"behavioral", "technical", "situational"},
}
