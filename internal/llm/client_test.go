package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-test" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("missing version header")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"Define paging.\n"},{"type":"text","text":"Explain TLBs."}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-test", "claude-test", 512).WithEndpoint(srv.URL)
	out, err := c.Complete(context.Background(), "generate", Params{Temperature: 0.3, MaxOutputTokens: 64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Define paging.\nExplain TLBs." {
		t.Errorf("unexpected output %q", out)
	}
	if got.Model != "claude-test" || got.MaxTokens != 64 {
		t.Errorf("unexpected request model=%q max=%d", got.Model, got.MaxTokens)
	}
	if got.Temperature == nil || *got.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", got.Temperature)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "generate" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestAnthropicClient_StatusHandling(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":{"type":"x","message":"y"}}`))
		}))
		c := NewAnthropicClient("k", "m", 0).WithEndpoint(srv.URL)
		_, err := c.Complete(context.Background(), "p", Params{})
		srv.Close()
		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
			continue
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, err)
		}
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer gsk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"` +
			"```\\nList three scheduling policies.\\n```" + `"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIOptions{APIKey: "gsk-test", BaseURL: srv.URL + "/v1", Model: "llama3-8b-8192", Temperature: 0.5, MaxTokens: 100})
	out, err := c.Complete(context.Background(), "prompt", Params{MaxOutputTokens: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "List three scheduling policies." {
		t.Errorf("unexpected output %q", out)
	}
	if got["model"] != "llama3-8b-8192" {
		t.Errorf("unexpected model %v", got["model"])
	}
	if got["max_tokens"] != float64(50) {
		t.Errorf("expected max_tokens=50, got %v", got["max_tokens"])
	}
	if c.Model() != "llama3-8b-8192" {
		t.Errorf("unexpected Model() %q", c.Model())
	}
}

func TestOpenAIClient_RateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit","type":"tokens"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIOptions{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := c.Complete(context.Background(), "p", Params{})
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestStripCodeBlock(t *testing.T) {
	tests := map[string]string{
		"plain":                "plain",
		"```\na\nb\n```":       "a\nb",
		"```text\nx\n```":      "x",
		"  spaced  ":           "spaced",
		"```json\n[1]\n```   ": "[1]",
	}
	for in, want := range tests {
		if got := StripCodeBlock(in); got != want {
			t.Errorf("StripCodeBlock(%q): expected %q, got %q", in, want, got)
		}
	}
}
