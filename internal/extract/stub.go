package extract

import (
	"context"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// StubText is returned for every document in stub mode.
const StubText = "This is simulated text from your CV. Replace with actual extraction logic. \n\nJohn Doe\nSoftware Engineer\nSkills: React, Node.js, Python"

// Stub ignores the document and returns StubText after Delay. Used for demos
// and front-end work without real files.
type Stub struct {
	Delay time.Duration
}

func (s Stub) ExtractText(ctx context.Context, _ model.Document) (string, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return StubText, nil
}
