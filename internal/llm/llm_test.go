package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPrompts(t *testing.T) {
	system := BuildSystemPrompt("content-moderation", "high")
	if !strings.Contains(system, `"content-moderation"`) {
		t.Errorf("expected system prompt to carry the domain, got %q", system)
	}
	if !strings.Contains(system, "Reasoning effort: high") {
		t.Errorf("expected system prompt to carry the effort level, got %q", system)
	}

	user := BuildUserPrompt("content-moderation", "No hate speech allowed.")
	if !strings.Contains(user, "No hate speech allowed.") {
		t.Error("expected user prompt to embed the norms text")
	}
	// The extraction engine depends on these markers being requested
	if !strings.Contains(user, "**THINKING:**") || !strings.Contains(user, "**POLICY:**") {
		t.Error("expected user prompt to request the THINKING/POLICY markers")
	}
	if !strings.Contains(user, "```json") {
		t.Error("expected user prompt to request a fenced JSON block")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil || p != nil {
		t.Errorf("expected disabled provider for empty name, got %v / %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("expected error for openai without API key")
	}

	p, err = NewProvider(Config{Provider: "ollama"})
	if err != nil || p == nil {
		t.Fatalf("expected ollama provider, got %v / %v", p, err)
	}
	if p.Name() != "ollama" {
		t.Errorf("expected name ollama, got %q", p.Name())
	}

	p, err = NewProvider(Config{Provider: "claude", APIKey: "key"})
	if err != nil || p.Name() != "anthropic" {
		t.Errorf("expected claude alias to build anthropic provider, got %v / %v", p, err)
	}
}

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected path /api/generate, got %s", r.URL.Path)
		}

		var apiReq ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if apiReq.Stream {
			t.Error("expected non-streaming request")
		}
		if !strings.Contains(apiReq.Prompt, "no secrets in code") {
			t.Error("expected norms to appear in the prompt")
		}

		resp := ollamaResponse{
			Model:           "gpt-oss:20b",
			Response:        "**THINKING:**\nok\n**POLICY:**\n```json\n{}\n```",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "gpt-oss:20b", Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Domain: "code-review",
		Norms:  "no secrets in code",
		Effort: "medium",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(resp.Raw, "**POLICY:**") {
		t.Errorf("unexpected raw response: %q", resp.Raw)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("expected 30 tokens used, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "gpt-oss:20b", Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Domain: "d", Norms: "n"})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected API error to surface, got %v", err)
	}
}

func TestOllamaProvider_Generate_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{Domain: "d", Norms: "n"}); err == nil {
		t.Error("expected error when no model is configured")
	}
}

func TestAnthropicProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("expected API key header")
		}

		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "raw policy output"}],
			"model": "claude-3-5-haiku-20241022",
			"usage": {"input_tokens": 5, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Domain: "d", Norms: "n"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Raw != "raw policy output" {
		t.Errorf("unexpected raw response %q", resp.Raw)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("expected 12 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}
