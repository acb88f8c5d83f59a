package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

const openAIOK = `{"choices":[{"message":{"content":"{\"behavioral\":[]}"}}]}`

func TestOpenAIComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, openAIOK)

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), model.Prompt{Text: "analyze this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"behavioral":[]}` {
		t.Errorf("got %q, want json string", got)
	}
}

func TestOpenAIComplete_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, `{"error":"server error"}`)

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), model.Prompt{Text: "analyze this"})
	if !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork on 5xx", err)
	}
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, `{"choices":[]}`)

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), model.Prompt{Text: "analyze this"})
	if !errors.Is(err, model.ErrUnexpectedShape) {
		t.Fatalf("err = %v, want ErrUnexpectedShape", err)
	}
}

func TestOpenAIComplete_SetsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(openAIOK))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "my-secret-key", "test-model", srv.Client())
	_, _ = provider.Complete(context.Background(), model.Prompt{Text: "hello"})

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
}

func TestOpenAIComplete_SendsSchemaForStructuredPrompt(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(openAIOK))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "gpt-4o-mini", srv.Client())
	_, _ = provider.Complete(context.Background(), model.Prompt{
		Text:       "analyze this",
		Structured: true,
		SchemaName: "interview_questions",
		Schema:     map[string]any{"type": "object"},
	})

	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_schema" {
		t.Fatalf("response_format = %+v, want json_schema", gotReq.ResponseFormat)
	}
	if gotReq.ResponseFormat.JSONSchema.Name != "interview_questions" {
		t.Errorf("json_schema.name = %q", gotReq.ResponseFormat.JSONSchema.Name)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestOpenAIComplete_PlainPromptHasNoResponseFormat(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(openAIOK))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "m", srv.Client())
	_, _ = provider.Complete(context.Background(), model.Prompt{Text: "enhance"})

	if _, ok := raw["response_format"]; ok {
		t.Error("plain prompt should not send response_format")
	}
}
