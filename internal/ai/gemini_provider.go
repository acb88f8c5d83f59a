package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// GeminiProvider calls the generateContent REST endpoint directly.
type GeminiProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiProvider creates a provider targeting the Gemini REST API.
func NewGeminiProvider(baseURL, apiKey, model string, httpClient *http.Client) *GeminiProvider {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text *string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

// geminiResponse mirrors the relevant fields of a generateContent response.
type geminiResponse struct {
	Candidates []struct {
		Content      *geminiContent `json:"content"`
		FinishReason string         `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

// Complete sends prompt as a single user turn. Structured prompts request an
// application/json response body.
func (p *GeminiProvider) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	text := prompt.Text
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: &text}},
		}},
	}
	if prompt.Structured {
		reqBody.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w: %w", model.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w: %w", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w: %w", model.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("gemini: %s", truncate(string(respBytes), 512)),
		}
	}

	var out geminiResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w: %w", model.ErrUnexpectedShape, err)
	}

	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil ||
		len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == nil {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", model.ErrUnexpectedShape, out.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates[0].content.parts[0].text", model.ErrUnexpectedShape)
	}

	return *out.Candidates[0].Content.Parts[0].Text, nil
}

func (p *GeminiProvider) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
}

// parseRetryAfter reads a Retry-After header in seconds. Zero if absent or malformed.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
