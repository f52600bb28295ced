package model

import (
	"runtime"
	"time"
)

// Config is the full runtime configuration, assembled from defaults,
// the config file, RULEFORGE_* environment variables, and CLI flags
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the policy-generation model provider
type LLMConfig struct {
	Provider  string  `yaml:"provider"`   // openai, anthropic, ollama
	Model     string  `yaml:"model"`      // Provider-specific model name
	APIKey    string  `yaml:"api_key"`    // Prefer OPENAI_API_KEY / ANTHROPIC_API_KEY env vars
	BaseURL   string  `yaml:"base_url"`   // Custom endpoint (e.g., Ollama)
	Timeout   int     `yaml:"timeout"`    // Seconds per request
	MaxTokens int     `yaml:"max_tokens"` // Response token budget
	RateLimit float64 `yaml:"rate_limit"` // Requests per second per endpoint host

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// CacheConfig configures the LLM response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // Disk tier location; empty means os.UserCacheDir
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	EvalWorkers  int `yaml:"eval_workers"`  // Parallel test-case evaluation
	BatchWorkers int `yaml:"batch_workers"` // Parallel policy generation in batch mode
}

// OutputConfig controls rendering behavior
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"` // Footer in Markdown outputs
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "ollama",
			Model:     "gpt-oss:20b",
			Timeout:   120,
			MaxTokens: 2048,
			RateLimit: 1.0,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			EvalWorkers:  runtime.NumCPU(),
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
