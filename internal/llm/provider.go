package llm

import (
	"context"

	"github.com/ruleforge/ruleforge/internal/model"
)

// Provider is a policy-generation model backend. Providers only move
// text: they take a prompt describing organizational norms and return
// the raw model response. Turning that response into a structured
// policy is the extraction engine's job, never the provider's.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces the raw model response for a generation request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest is the input for policy generation
type GenerateRequest struct {
	// Domain the policy is for (e.g., content-moderation)
	Domain string

	// Norms is the free-text organizational norms to compile
	Norms string

	// Effort is the reasoning effort hint: low, medium, high
	Effort string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse is the raw model output plus bookkeeping
type GenerateResponse struct {
	// Raw is the full, unparsed model response
	Raw string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   120,
		MaxTokens: 2048,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
	}
}
