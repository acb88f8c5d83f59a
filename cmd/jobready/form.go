package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
	"github.com/thejatinbaghel/JobReady-AI/internal/tui"
)

var formCVPath string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive form (TUI)",
	Long:  "Fill in CV and job description in the terminal, then tailor, enhance or predict interview questions.",
	RunE:  runFormCmd,
}

func init() {
	formCmd.Flags().StringVar(&formCVPath, "cv", "", "CV file (.txt, .pdf or .docx) to pre-fill the form with")
	rootCmd.AddCommand(formCmd)
}

func runFormCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Any log output after the alt-screen starts corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := setupProvider(context.Background(), cfg.AI, silentLogger)
	if err != nil {
		logger.Error("failed to set up provider", "error", err)
		os.Exit(1)
	}

	var cvText string
	if formCVPath != "" {
		data, err := os.ReadFile(formCVPath)
		if err != nil {
			logger.Error("failed to read CV", "path", formCVPath, "error", err)
			os.Exit(1)
		}
		extractor := setupExtractor(cfg.Extract)
		doc := model.Document{Name: filepath.Base(formCVPath), Data: data}
		cvText, err = tui.RunLoader("Reading "+doc.Name, func(ctx context.Context) (string, error) {
			return extractor.ExtractText(ctx, doc)
		})
		if err != nil {
			fmt.Printf("Could not read %s: %v\n", formCVPath, err)
		}
	}

	orch := orchestrator.New(ai.NewLLMAnalyzer(provider, silentLogger), cfg.AI.Timeout, silentLogger)
	if err := tui.Run(orch, cvText, cfg.Export.Dir); err != nil {
		fmt.Printf("TUI error: %v\n", err)
		os.Exit(1)
	}
	return nil
}
