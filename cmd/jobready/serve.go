package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/notifier"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
	"github.com/thejatinbaghel/JobReady-AI/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP proxy",
	Long:  "Serve the JobReady API. The model credential stays in this process; browsers talk to /api only. Blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	analyzer := ai.NewLLMAnalyzer(provider, logger)
	n := notifier.NewLogNotifier(logger)

	newOrchestrator := setupOrchestratorFactory(cfg, analyzer, logger)
	sessions := server.NewSessions(cfg.Server.SessionTTL, func() *orchestrator.Orchestrator {
		orch := newOrchestrator()
		orch.SubscribeAll(n.Notify)
		return orch
	}, logger)

	logger.Info("config loaded",
		"addr", cfg.Server.Addr,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"extract_mode", cfg.Extract.Mode,
		"max_upload_bytes", cfg.Server.MaxUploadBytes,
	)

	srv := server.New(cfg.Server, sessions, setupExtractor(cfg.Extract), logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
