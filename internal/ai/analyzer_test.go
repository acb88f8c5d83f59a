package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// mockProvider is a stub LLMProvider that records every prompt it receives.
type mockProvider struct {
	response string
	err      error
	calls    int
	prompts  []model.Prompt
}

func (m *mockProvider) Complete(_ context.Context, p model.Prompt) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, p)
	return m.response, m.err
}

func TestAnalyze_ValidationSkipsProvider(t *testing.T) {
	requests := []model.AnalysisRequest{
		{Kind: model.TaskTailor, SourceText: "", JobText: "job"},
		{Kind: model.TaskTailor, SourceText: "cv", JobText: ""},
		{Kind: model.TaskPredict, SourceText: "", JobText: ""},
		{Kind: model.TaskEnhance, SourceText: "  "},
	}
	for _, req := range requests {
		provider := &mockProvider{response: "unused"}
		analyzer := NewLLMAnalyzer(provider, nil)

		_, err := analyzer.Analyze(context.Background(), req)
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", req.Kind, err)
		}
		if provider.calls != 0 {
			t.Errorf("%s: provider called %d times, want 0", req.Kind, provider.calls)
		}
	}
}

func TestAnalyze_TailorSuccess(t *testing.T) {
	provider := &mockProvider{response: `{"tailoredCv":"cv","coverLetter":"letter","atsScore":91,"suggestions":["a","b","c"]}`}
	analyzer := NewLLMAnalyzer(provider, nil)

	res, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{
		Kind: model.TaskTailor, SourceText: "my cv", JobText: "the job",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, ok := res.(model.TailorResult)
	if !ok {
		t.Fatalf("result type = %T", res)
	}
	if tr.ATSScore != 91 || len(tr.Suggestions) != 3 {
		t.Errorf("result = %+v", tr)
	}
	if len(provider.prompts) != 1 || !provider.prompts[0].Structured {
		t.Fatalf("expected one structured prompt, got %+v", provider.prompts)
	}
	if !strings.Contains(provider.prompts[0].Text, "my cv") {
		t.Error("prompt does not contain CV text")
	}
}

func TestAnalyze_EnhanceSendsPlainPrompt(t *testing.T) {
	provider := &mockProvider{response: "• Grew newsletter readership by 40%"}
	analyzer := NewLLMAnalyzer(provider, nil)

	res, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Kind: model.TaskEnhance, SourceText: "ran newsletter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(model.EnhanceResult).BulletText != "• Grew newsletter readership by 40%" {
		t.Errorf("result = %+v", res)
	}
	if provider.prompts[0].Structured {
		t.Error("enhance prompt should not be structured")
	}
}

func TestAnalyze_ProviderErrorKeepsClass(t *testing.T) {
	provider := &mockProvider{err: &model.HTTPError{StatusCode: 500}}
	analyzer := NewLLMAnalyzer(provider, nil)

	_, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Kind: model.TaskEnhance, SourceText: "x"})
	if model.ReasonOf(err) != model.ReasonNetwork {
		t.Fatalf("reason = %s, want network (err=%v)", model.ReasonOf(err), err)
	}
}

func TestAnalyze_MalformedPayloadIsParseFailure(t *testing.T) {
	provider := &mockProvider{response: `{"behavioral":"oops"}`}
	analyzer := NewLLMAnalyzer(provider, nil)

	_, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{
		Kind: model.TaskPredict, SourceText: "cv", JobText: "job",
	})
	if !errors.Is(err, model.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}
