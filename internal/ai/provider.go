package ai

import (
	"context"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// LLMProvider sends a prompt to a remote model and returns the raw text of
// the first candidate. Errors wrap model.ErrNetwork (transport failure or
// non-2xx status) or model.ErrUnexpectedShape (envelope without text).
type LLMProvider interface {
	Complete(ctx context.Context, prompt model.Prompt) (string, error)
}

