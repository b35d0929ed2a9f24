package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClaudeInvokeWireFormat(t *testing.T) {
	t.Parallel()

	var captured claudeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != anthropicVersion {
			t.Errorf("anthropic-version = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "hello back"}],
			"usage": {"input_tokens": 11, "output_tokens": 7, "cache_creation_input_tokens": 5, "cache_read_input_tokens": 3}
		}`))
	}))
	defer server.Close()

	client := NewClaudeClient(ClaudeConfig{APIKey: "test-key", BaseURL: server.URL})
	messages := []ExportMessage{
		{Role: RoleUser, Blocks: []ContentBlock{{Text: "older", CacheHint: true}}},
		{Role: RoleAssistant, Blocks: []ContentBlock{{Text: "mid"}}},
		{Role: RoleUser, Blocks: []ContentBlock{{Text: "latest"}}},
	}

	text, usage, err := client.Invoke(context.Background(), messages, "system prompt", "claude-sonnet-4-5")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if text != "hello back" {
		t.Fatalf("text = %q", text)
	}
	want := Usage{InputTokens: 11, OutputTokens: 7, CacheWriteTokens: 5, CacheReadTokens: 3}
	if usage != want {
		t.Fatalf("usage = %+v, want %+v", usage, want)
	}

	if captured.Model != "claude-sonnet-4-5" {
		t.Fatalf("wire model = %q", captured.Model)
	}
	if len(captured.System) != 1 || captured.System[0].CacheControl == nil {
		t.Fatalf("system block not cache-marked: %+v", captured.System)
	}
	if len(captured.Messages) != 3 {
		t.Fatalf("wire messages = %d, want 3", len(captured.Messages))
	}
	if captured.Messages[0].Content[0].CacheControl == nil ||
		captured.Messages[0].Content[0].CacheControl.Type != "ephemeral" {
		t.Fatalf("cache hint not carried onto wire: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Content[0].CacheControl != nil || captured.Messages[2].Content[0].CacheControl != nil {
		t.Fatalf("unmarked messages carry cache_control")
	}
}

func TestClaudeInvokeAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	defer server.Close()

	client := NewClaudeClient(ClaudeConfig{APIKey: "test-key", BaseURL: server.URL})
	_, _, err := client.Invoke(context.Background(), nil, "sys", "claude-sonnet-4-5")
	if !errors.Is(err, ErrGatewayFailure) {
		t.Fatalf("error = %v, want ErrGatewayFailure", err)
	}
	if !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("error does not surface provider message: %v", err)
	}
}

func TestClaudeInvokeMissingKey(t *testing.T) {
	t.Parallel()

	client := NewClaudeClient(ClaudeConfig{})
	_, _, err := client.Invoke(context.Background(), nil, "sys", "claude-sonnet-4-5")
	if !errors.Is(err, ErrGatewayFailure) {
		t.Fatalf("error = %v, want ErrGatewayFailure", err)
	}
}

func TestClaudeModelResolution(t *testing.T) {
	t.Parallel()

	client := NewClaudeClient(ClaudeConfig{APIKey: "k"})
	if !client.HasModel("claude-3-5-sonnet") || client.HasModel("gpt-4o") {
		t.Fatalf("HasModel misroutes")
	}
	if got := client.DefaultModel(); got != "claude-sonnet-4-5" {
		t.Fatalf("DefaultModel = %q", got)
	}
	if got := client.resolveModel("claude-sonnet-4"); got != "claude-sonnet-4-0" {
		t.Fatalf("resolveModel = %q", got)
	}
	if got := client.resolveModel("unknown"); got != "claude-sonnet-4-5" {
		t.Fatalf("resolveModel(unknown) = %q, want default id", got)
	}
	models := client.Models()
	if len(models) != 4 {
		t.Fatalf("Models() = %v", models)
	}
}
