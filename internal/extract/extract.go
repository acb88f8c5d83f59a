package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

var (
	// ErrUnsupported is returned for file types no extractor handles.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a document parses but holds no text.
	ErrNoText = errors.New("no text content found")
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc model.Document) (string, error)
}

// Registry dispatches to an extractor by lower-cased file extension.
type Registry struct {
	byExt map[string]TextExtractor
}

// NewRegistry returns a registry with the native extractors for .txt, .md,
// .pdf and .docx files.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]TextExtractor)}
	plain := PlainText{}
	r.Register(".txt", plain)
	r.Register(".md", plain)
	r.Register(".pdf", PDF{})
	r.Register(".docx", DOCX{})
	return r
}

// Register sets the extractor for ext, replacing any existing one.
func (r *Registry) Register(ext string, e TextExtractor) {
	r.byExt[normalizeExt(ext)] = e
}

// Supports reports whether name has a registered extension.
func (r *Registry) Supports(name string) bool {
	_, ok := r.byExt[normalizeExt(filepath.Ext(name))]
	return ok
}

// ExtractText picks the extractor for doc.Name and trims the result.
func (r *Registry) ExtractText(ctx context.Context, doc model.Document) (string, error) {
	ext := normalizeExt(filepath.Ext(doc.Name))
	e, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, doc.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := e.ExtractText(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("extract %s: %w", doc.Name, ErrNoText)
	}
	return text, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
