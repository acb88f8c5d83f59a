package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
	"github.com/thejatinbaghel/JobReady-AI/internal/parse"
	"github.com/thejatinbaghel/JobReady-AI/internal/prompt"
)

// Ensure LLMAnalyzer implements model.Analyzer.
var _ model.Analyzer = (*LLMAnalyzer)(nil)

// LLMAnalyzer runs one request through prompt building, the provider call and
// response parsing.
type LLMAnalyzer struct {
	provider LLMProvider
	logger   *slog.Logger
}

// NewLLMAnalyzer creates an analyzer backed by provider.
func NewLLMAnalyzer(provider LLMProvider, logger *slog.Logger) *LLMAnalyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LLMAnalyzer{
		provider: provider,
		logger:   logger,
	}
}

// Analyze validates req before anything else; an invalid request never
// reaches the provider. Returned errors wrap one of the model failure classes.
func (a *LLMAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (model.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := prompt.Build(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	a.logger.Debug("sending prompt", "task", req.Kind, "prompt_bytes", len(p.Text), "structured", p.Structured)

	raw, err := a.provider.Complete(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	res, err := parse.Parse(req.Kind, raw)
	if err != nil {
		a.logger.Debug("unparseable payload", "task", req.Kind, "payload_bytes", len(raw), "error", err)
		return nil, fmt.Errorf("parse %s result: %w", req.Kind, err)
	}
	return res, nil
}
