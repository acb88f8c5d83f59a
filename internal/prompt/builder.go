// Package prompt renders the instruction text sent to the remote model for
// each task kind.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Neutralize breaks every run of three or more '<' or '>' by inserting a
// space, so user text cannot open or close a prompt section. Text without
// such runs is returned unchanged.
func Neutralize(s string) string {
	if !strings.Contains(s, "<<<") && !strings.Contains(s, ">>>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	run := 0
	for _, r := range s {
		if (r == '<' || r == '>') && r == prev {
			run++
		} else {
			run = 1
		}
		if run == 3 {
			b.WriteByte(' ')
			run = 1
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Build renders the prompt for req. It is pure: identical requests always
// produce identical prompts. The request is not validated here.
func Build(req model.AnalysisRequest) (model.Prompt, error) {
	switch req.Kind {
	case model.TaskTailor:
		text, err := render(tailorTemplate, documents(req))
		if err != nil {
			return model.Prompt{}, err
		}
		return model.Prompt{Text: text, Structured: true, SchemaName: "tailored_application", Schema: tailorSchema}, nil

	case model.TaskEnhance:
		text, err := render(enhanceTemplate, struct{ Text string }{Text: Neutralize(req.SourceText)})
		if err != nil {
			return model.Prompt{}, err
		}
		return model.Prompt{Text: text}, nil

	case model.TaskPredict:
		text, err := render(predictTemplate, documents(req))
		if err != nil {
			return model.Prompt{}, err
		}
		return model.Prompt{Text: text, Structured: true, SchemaName: "interview_questions", Schema: predictSchema}, nil

	default:
		return model.Prompt{}, fmt.Errorf("no prompt for task kind %q", req.Kind)
	}
}

type documentFields struct {
	CV  string
	Job string
}

func documents(req model.AnalysisRequest) documentFields {
	return documentFields{CV: Neutralize(req.SourceText), Job: Neutralize(req.JobText)}
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
