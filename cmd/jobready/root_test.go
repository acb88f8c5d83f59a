package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/thejatinbaghel/JobReady-AI/internal/config"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

func TestSetupProvider_RetriesWaitMinDelay(t *testing.T) {
	orig := retryBaseDelay
	retryBaseDelay = 10 * time.Millisecond
	t.Cleanup(func() { retryBaseDelay = orig })

	var (
		mu    sync.Mutex
		calls []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, time.Now())
		n := len(calls)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"done"}]}}]}`))
	}))
	defer srv.Close()

	minDelay := 300 * time.Millisecond
	provider, err := setupProvider(context.Background(), config.AIConfig{
		Provider:   config.ProviderGemini,
		BaseURL:    srv.URL,
		Model:      "gemini-test",
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MinDelay:   minDelay,
		MaxRetries: 1,
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("setupProvider: %v", err)
	}

	got, err := provider.Complete(context.Background(), model.Prompt{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("server calls = %d, want 2", len(calls))
	}
	if gap := calls[1].Sub(calls[0]); gap < minDelay {
		t.Errorf("gap between attempts = %v, want >= %v", gap, minDelay)
	}
}
