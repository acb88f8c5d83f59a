package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidate_TailorRequiresBothTexts(t *testing.T) {
	cases := []AnalysisRequest{
		{Kind: TaskTailor},
		{Kind: TaskTailor, SourceText: "cv"},
		{Kind: TaskTailor, JobText: "job"},
		{Kind: TaskPredict, SourceText: "cv", JobText: "   \n"},
	}
	for _, req := range cases {
		if err := req.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("Validate(%+v) = %v, want ErrValidation", req, err)
		}
	}
}

func TestValidate_EnhanceNeedsOnlySourceText(t *testing.T) {
	if err := (AnalysisRequest{Kind: TaskEnhance, SourceText: "ran the newsletter"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (AnalysisRequest{Kind: TaskEnhance, JobText: "job"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	err := AnalysisRequest{Kind: "summarize", SourceText: "a", JobText: "b"}.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestReasonOf(t *testing.T) {
	tests := []struct {
		err  error
		want FailureReason
	}{
		{fmt.Errorf("x: %w", ErrValidation), ReasonValidation},
		{fmt.Errorf("x: %w", ErrParse), ReasonParse},
		{fmt.Errorf("x: %w", ErrUnexpectedShape), ReasonUnexpectedShape},
		{&HTTPError{StatusCode: 500}, ReasonNetwork},
		{errors.New("dial tcp: timeout"), ReasonNetwork},
	}
	for _, tt := range tests {
		if got := ReasonOf(tt.err); got != tt.want {
			t.Errorf("ReasonOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestHTTPError_IsNetwork(t *testing.T) {
	err := fmt.Errorf("gemini: %w", &HTTPError{StatusCode: 503, Err: errors.New("overloaded")})
	if !errors.Is(err, ErrNetwork) {
		t.Error("expected HTTPError to classify as ErrNetwork")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 503 {
		t.Errorf("errors.As did not recover HTTPError: %v", err)
	}
}

func TestDisplayScore_Clamps(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 72: 72, 100: 100, 140: 100} {
		r := TailorResult{ATSScore: in}
		if got := r.DisplayScore(); got != want {
			t.Errorf("DisplayScore(%d) = %d, want %d", in, got, want)
		}
		if r.ATSScore != in {
			t.Errorf("DisplayScore mutated ATSScore")
		}
	}
}

func TestPredictCategories_SkipsEmpty(t *testing.T) {
	r := PredictResult{Technical: []string{"Q1"}}
	cats := r.Categories()
	if len(cats) != 1 || cats[0].Name != "Technical" {
		t.Errorf("Categories = %+v, want only Technical", cats)
	}
}

func TestFailureMessage(t *testing.T) {
	o := Outcome{Kind: TaskEnhance, Status: StatusFailure, Reason: ReasonNetwork}
	if o.Message() != "Failed to enhance text. Please try again." {
		t.Errorf("Message = %q", o.Message())
	}
	if (Outcome{Status: StatusSuccess}).Message() != "" {
		t.Error("expected empty message for success")
	}
}
