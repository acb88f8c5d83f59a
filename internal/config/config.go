package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no --config flag is given.
const EnvPath = "JOBREADY_CONFIG"

// DefaultPath is used when neither the flag nor EnvPath is set.
const DefaultPath = "config.yaml"

// Config is the root configuration for the JobReady server and form.
type Config struct {
	AI      AIConfig
	Server  ServerConfig
	Extract ExtractConfig
	Export  ExportConfig
}

// AIConfig selects and tunes the remote model provider.
type AIConfig struct {
	Provider   string        // "gemini", "genai" or "openai"
	BaseURL    string        // empty means the provider's default endpoint
	Model      string        // empty means the provider's default model
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MinDelay   time.Duration // minimum gap between calls to the provider
	MaxRetries int           // 0 disables retries
}

// ServerConfig controls the HTTP proxy.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string // empty disables CORS headers
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

// ExtractConfig selects how uploaded documents become text.
type ExtractConfig struct {
	Mode string `yaml:"mode"` // "native" or "stub"
}

// ExportConfig controls where the form saves tailored applications.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

const (
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
	ProviderOpenAI = "openai"

	ExtractNative = "native"
	ExtractStub   = "stub"
)

var (
	knownProviders    = []string{ProviderGemini, ProviderGenAI, ProviderOpenAI}
	knownExtractModes = []string{ExtractNative, ExtractStub}
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI      rawAIConfig     `yaml:"ai"`
	Server  rawServerConfig `yaml:"server"`
	Extract ExtractConfig   `yaml:"extract"`
	Export  ExportConfig    `yaml:"export"`
}

type rawAIConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MinDelay   string `yaml:"min_delay"`
	MaxRetries int    `yaml:"max_retries"`
}

type rawServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SessionTTL     string   `yaml:"session_ttl"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// Path resolves the config file location: flag, then $JOBREADY_CONFIG, then DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout, err := duration("ai.timeout", raw.AI.Timeout, 60*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := duration("ai.min_delay", raw.AI.MinDelay, time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := duration("server.session_ttl", raw.Server.SessionTTL, 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AI: AIConfig{
			Provider:   strings.ToLower(orDefault(raw.AI.Provider, ProviderGemini)),
			BaseURL:    raw.AI.BaseURL,
			Model:      raw.AI.Model,
			APIKey:     strings.TrimSpace(raw.AI.APIKey),
			Timeout:    timeout,
			MinDelay:   minDelay,
			MaxRetries: raw.AI.MaxRetries,
		},
		Server: ServerConfig{
			Addr:           orDefault(raw.Server.Addr, ":8080"),
			AllowedOrigins: raw.Server.AllowedOrigins,
			SessionTTL:     sessionTTL,
			MaxUploadBytes: raw.Server.MaxUploadBytes,
		},
		Extract: ExtractConfig{Mode: strings.ToLower(orDefault(raw.Extract.Mode, ExtractNative))},
		Export:  ExportConfig{Dir: orDefault(raw.Export.Dir, ".")},
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func duration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func validate(cfg *Config) error {
	if !slices.Contains(knownProviders, cfg.AI.Provider) {
		return fmt.Errorf("ai.provider must be one of %v, got %q", knownProviders, cfg.AI.Provider)
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required (set GEMINI_API_KEY or edit the config)")
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MinDelay < 0 {
		return fmt.Errorf("ai.min_delay must not be negative, got %v", cfg.AI.MinDelay)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}

	if cfg.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %v", cfg.Server.SessionTTL)
	}
	if cfg.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must not be negative, got %d", cfg.Server.MaxUploadBytes)
	}

	if !slices.Contains(knownExtractModes, cfg.Extract.Mode) {
		return fmt.Errorf("extract.mode must be one of %v, got %q", knownExtractModes, cfg.Extract.Mode)
	}

	return nil
}
