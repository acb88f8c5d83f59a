package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
)

var checkText string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Send one enhance request, print the result, exit",
	Long:  "One-shot connectivity check: validates the config, runs a single enhance request through the configured provider and prints the bullets.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkText, "text", "Built an internal dashboard used by the sales team", "sentence to enhance")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := setupProvider(ctx, cfg.AI, logger)
	if err != nil {
		logger.Error("failed to set up provider", "error", err)
		os.Exit(1)
	}

	slot := orchestrator.NewSlot(model.TaskEnhance, ai.NewLLMAnalyzer(provider, logger), cfg.AI.Timeout, logger)
	out, err := slot.Run(ctx, model.AnalysisRequest{Kind: model.TaskEnhance, SourceText: checkText})
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}
	if out.Status == model.StatusFailure {
		var httpErr *model.HTTPError
		if errors.As(out.Err, &httpErr) {
			logger.Error("provider returned an error status", "status", httpErr.StatusCode)
		}
		logger.Error("check failed", "reason", out.Reason, "error", out.Err)
		os.Exit(1)
	}

	for _, b := range out.Result.(model.EnhanceResult).Bullets() {
		fmt.Println(b)
	}
	logger.Info("check complete")
	return nil
}
