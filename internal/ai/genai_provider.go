package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// GenAIProvider calls Gemini through the official google.golang.org/genai SDK.
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider creates an SDK-backed provider. baseURL overrides the SDK
// default endpoint when non-empty.
func NewGenAIProvider(ctx context.Context, baseURL, apiKey, modelName string, httpClient *http.Client) (*GenAIProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GenAIProvider{client: client, model: modelName}, nil
}

// Complete sends prompt as a single user turn and returns the first part's text.
func (p *GenAIProvider) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	var cfg *genai.GenerateContentConfig
	if prompt.Structured {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.Text), cfg)
	if err != nil {
		return "", classifyGenAIError(err)
	}
	return firstCandidateText(resp)
}

// classifyGenAIError turns SDK API errors into model.HTTPError so they are
// handled like REST status codes. A 2xx body the SDK cannot decode is an
// unexpected envelope, not a network failure.
func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &model.HTTPError{StatusCode: apiErr.Code, Err: fmt.Errorf("genai: %s", apiErr.Message)}
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("decode genai response: %w: %w", model.ErrUnexpectedShape, err)
	}
	return fmt.Errorf("genai request: %w: %w", model.ErrNetwork, err)
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: no candidates[0].content.parts[0].text", model.ErrUnexpectedShape)
	}
	// The SDK omits empty text, so "" means the part carries something else,
	// such as a function call.
	part := resp.Candidates[0].Content.Parts[0]
	if part.Text == "" {
		return "", fmt.Errorf("%w: candidates[0].content.parts[0] has no text", model.ErrUnexpectedShape)
	}
	return part.Text, nil
}
