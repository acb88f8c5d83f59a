package notifier

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

func newBufferedNotifier() (*LogNotifier, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewLogNotifier(logger), &buf
}

func TestLogNotifier_IgnoresNonTerminal(t *testing.T) {
	n, buf := newBufferedNotifier()
	n.Notify(model.Outcome{Kind: model.TaskTailor, Status: model.StatusLoading})
	n.Notify(model.Outcome{Kind: model.TaskTailor, Status: model.StatusIdle})
	if buf.Len() != 0 {
		t.Errorf("logged %q for non-terminal outcomes", buf.String())
	}
}

func TestLogNotifier_Success(t *testing.T) {
	n, buf := newBufferedNotifier()
	n.Notify(model.Outcome{
		Kind:       model.TaskTailor,
		Status:     model.StatusSuccess,
		Generation: 3,
		Result:     model.TailorResult{ATSScore: 88, Suggestions: []string{"a", "b"}},
	})

	out := buf.String()
	for _, want := range []string{"analysis ready", "task=tailor", "generation=3", "ats_score=88", "suggestions=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestLogNotifier_Failure(t *testing.T) {
	n, buf := newBufferedNotifier()
	n.Notify(model.Outcome{
		Kind:   model.TaskPredict,
		Status: model.StatusFailure,
		Reason: model.ReasonNetwork,
		Err:    fmt.Errorf("llm complete: %w", errors.New("connection refused")),
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "analysis failed", "task=predict", "reason=network", "connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}
