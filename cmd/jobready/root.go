package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thejatinbaghel/JobReady-AI/internal/ai"
	"github.com/thejatinbaghel/JobReady-AI/internal/config"
	"github.com/thejatinbaghel/JobReady-AI/internal/extract"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
	"github.com/thejatinbaghel/JobReady-AI/internal/ratelimit"
	"github.com/thejatinbaghel/JobReady-AI/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobready",
	Short: "AI résumé tailoring, bullet enhancement and interview prep",
	Long:  "JobReady tailors a CV to a job description, rewrites experience as STAR bullets and predicts interview questions using a generative model.",
	// Default to `serve` so the bare binary runs the proxy.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.EnvPath+" env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env (if present) so the config can reference its
// variables, then resolves the config path and parses it.
// Priority: explicit path arg > JOBREADY_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Load(config.Path(path))
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// retryBaseDelay is the backoff before the first retry.
var retryBaseDelay = 2 * time.Second

// setupProvider builds the configured provider and wraps it with the
// minimum-gap limiter and, when max_retries > 0, the retry decorator around it.
func setupProvider(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (ai.LLMProvider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var provider ai.LLMProvider
	switch cfg.Provider {
	case config.ProviderGenAI:
		p, err := ai.NewGenAIProvider(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient)
		if err != nil {
			return nil, err
		}
		provider = p
	case config.ProviderOpenAI:
		provider = ai.NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient)
	default:
		provider = ai.NewGeminiProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient)
	}

	// Retry wraps the limiter so every attempt, retries included, waits out
	// min_delay.
	limiter := ratelimit.NewLimiter(cfg.MinDelay)
	provider = ratelimit.NewRateLimitedProvider(provider, limiter, cfg.Provider)
	if cfg.MaxRetries > 0 {
		provider = retry.NewRetryProvider(provider, cfg.MaxRetries, retryBaseDelay, logger)
	}

	logger.Info("ai provider configured",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"timeout", cfg.Timeout.String(),
		"min_delay", cfg.MinDelay.String(),
		"max_retries", cfg.MaxRetries,
	)
	return provider, nil
}

// setupOrchestratorFactory returns a constructor for per-session
// orchestrators sharing one analyzer.
func setupOrchestratorFactory(cfg *config.Config, analyzer *ai.LLMAnalyzer, logger *slog.Logger) func() *orchestrator.Orchestrator {
	return func() *orchestrator.Orchestrator {
		return orchestrator.New(analyzer, cfg.AI.Timeout, logger)
	}
}

func setupExtractor(cfg config.ExtractConfig) extract.TextExtractor {
	if cfg.Mode == config.ExtractStub {
		return extract.Stub{}
	}
	return extract.NewRegistry()
}
