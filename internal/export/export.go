package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// FileName is the name used for saved and downloaded applications.
const FileName = "AI_Tailored_Application.txt"

// ContentType is served with downloads.
const ContentType = "text/plain; charset=utf-8"

// Application lays out the tailored CV and cover letter as one text file.
func Application(r model.TailorResult) string {
	return fmt.Sprintf("--- TAILORED CV ---\n\n%s\n\n\n--- COVER LETTER ---\n\n%s", r.TailoredCV, r.CoverLetter)
}

// Save writes the application to dir/FileName, replacing any previous copy,
// and returns the written path.
func Save(dir string, r model.TailorResult) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, ".application-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Application(r)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write application: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close application: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("save application: %w", err)
	}
	return path, nil
}
