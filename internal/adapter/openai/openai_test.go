package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

func TestCompleter_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Model != "test-model" || req.MaxTokens != 100 {
			t.Errorf("unexpected request: %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "two eggs" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"About 140 kcal"},"finish_reason":"stop"}]}`))
	}))
	defer ts.Close()

	c := New(Config{APIKey: "test-key", BaseURL: ts.URL + "/v1", Model: "test-model"})
	out, err := c.Complete(context.Background(), "two eggs")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "About 140 kcal" {
		t.Fatalf("unexpected completion %q", out)
	}
}

func TestCompleter_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer ts.Close()

	c := New(Config{APIKey: "k", BaseURL: ts.URL + "/v1"})
	if _, err := c.Complete(context.Background(), "soup"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCompleter_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer ts.Close()

	c := New(Config{APIKey: "k", BaseURL: ts.URL + "/v1"})
	_, err := c.Complete(context.Background(), "soup")
	if !errors.Is(err, domain.ErrAnalysisUnavailable) {
		t.Fatalf("expected ErrAnalysisUnavailable, got %v", err)
	}
}

func TestNew_DefaultModel(t *testing.T) {
	if c := New(Config{APIKey: "k"}); c.model != DefaultModel {
		t.Fatalf("expected default model, got %s", c.model)
	}
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.Complete(context.Background(), "soup")
	if !errors.Is(err, ErrNotConfigured) || !errors.Is(err, domain.ErrAnalysisUnavailable) {
		t.Fatalf("unexpected error: %v", err)
	}
}
