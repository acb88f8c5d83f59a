package model

import (
	"context"
	"fmt"
	"strings"
)

// TaskKind identifies one of the three independent request lifecycles.
type TaskKind string

const (
	TaskTailor  TaskKind = "tailor"
	TaskEnhance TaskKind = "enhance"
	TaskPredict TaskKind = "predict"
)

// TaskKinds lists every kind in presentation order.
var TaskKinds = []TaskKind{TaskTailor, TaskEnhance, TaskPredict}

// ParseTaskKind converts a string such as "tailor" into a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	switch k := TaskKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TaskTailor, TaskEnhance, TaskPredict:
		return k, nil
	default:
		return "", fmt.Errorf("unknown task kind %q", s)
	}
}

// AnalysisRequest is built fresh for each user action and never mutated.
// For TaskEnhance only SourceText is used.
type AnalysisRequest struct {
	Kind       TaskKind
	SourceText string // résumé text, or the sentence to enhance
	JobText    string // job description
}

// Validate checks the required inputs for the request's kind. Blank
// (whitespace-only) fields count as missing.
func (r AnalysisRequest) Validate() error {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	switch r.Kind {
	case TaskTailor, TaskPredict:
		if blank(r.SourceText) && blank(r.JobText) {
			return fmt.Errorf("%w: CV text and job description are required", ErrValidation)
		}
		if blank(r.SourceText) {
			return fmt.Errorf("%w: CV text is required", ErrValidation)
		}
		if blank(r.JobText) {
			return fmt.Errorf("%w: job description is required", ErrValidation)
		}
	case TaskEnhance:
		if blank(r.SourceText) {
			return fmt.Errorf("%w: text to enhance is required", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown task kind %q", ErrValidation, r.Kind)
	}
	return nil
}

// Prompt is the provider-neutral instruction sent to the remote model.
type Prompt struct {
	Text       string
	Structured bool           // request a JSON response body
	SchemaName string         // optional, for providers with schema-constrained output
	Schema     map[string]any // JSON Schema of the expected payload
}

// Document is a user-selected file handed to a TextExtractor.
type Document struct {
	Name string // original file name, used to pick an extractor
	Data []byte
}

// Analyzer runs one request end to end: prompt, remote call, parse.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (Result, error)
}
