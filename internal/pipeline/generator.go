package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruleforge/ruleforge/internal/cache"
	"github.com/ruleforge/ruleforge/internal/extract"
	"github.com/ruleforge/ruleforge/internal/llm"
	"github.com/ruleforge/ruleforge/internal/model"
	"github.com/ruleforge/ruleforge/internal/worker"
)

// Generator orchestrates the policy-generation flow: norms text in,
// extracted policy draft plus reasoning trace out. The model call goes
// through a response cache and a per-endpoint rate limiter; parsing
// the response is delegated to the extraction engine.
type Generator struct {
	provider llm.Provider
	cache    cache.Cache // nil when caching is disabled
	limiter  *worker.Limiter
	config   *model.Config
}

// GenerateResult is the outcome of one policy generation
type GenerateResult struct {
	Extraction model.ExtractionResult
	Raw        string // Full raw model response
	Model      string // Model that produced it
	CacheHit   bool
}

// NewGenerator creates a generator from configuration
func NewGenerator(cfg *model.Config) (*Generator, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider to openai, anthropic, or ollama)")
	}

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(base, "ruleforge")
		}
		responseCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	rps := cfg.LLM.RateLimit
	if rps <= 0 {
		rps = 1.0
	}

	return &Generator{
		provider: provider,
		cache:    responseCache,
		limiter:  worker.NewLimiter(rps, 1),
		config:   cfg,
	}, nil
}

// Generate compiles norms text into a policy draft for the domain.
// Extraction never fails, so a degraded model response still returns a
// result - the caller inspects Extraction.Diagnostic to see how it went.
func (g *Generator) Generate(ctx context.Context, domain, norms, effort string) (*GenerateResult, error) {
	if strings.TrimSpace(norms) == "" {
		return nil, fmt.Errorf("domain %q: empty norms text", domain)
	}
	if effort == "" {
		effort = "medium"
	}

	raw, modelName, hit, err := g.rawResponse(ctx, domain, norms, effort)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Extraction: extract.Extract(raw),
		Raw:        raw,
		Model:      modelName,
		CacheHit:   hit,
	}, nil
}

// GenerateFromFile reads a norms file and generates a policy for it.
// HTML norms are reduced to visible text first. The domain is derived
// from the parent directory name, matching the project layout that
// `ruleforge init` scaffolds.
func (g *Generator) GenerateFromFile(ctx context.Context, path, effort string) (*GenerateResult, string, error) {
	norms, err := ReadNorms(path)
	if err != nil {
		return nil, "", err
	}

	domain := DomainFromPath(path)
	result, err := g.Generate(ctx, domain, norms, effort)
	return result, domain, err
}

// rawResponse returns the model response for the prompt, from cache
// when possible
func (g *Generator) rawResponse(ctx context.Context, domain, norms, effort string) (raw, modelName string, hit bool, err error) {
	modelName = g.config.LLM.Model
	prompt := llm.BuildSystemPrompt(domain, effort) + "\x00" + llm.BuildUserPrompt(domain, norms)
	key := cache.ResponseKey(g.provider.Name(), modelName, prompt)

	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			return string(cached), modelName, true, nil
		}
	}

	if err := g.limiter.Wait(ctx, g.endpoint()); err != nil {
		return "", "", false, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.GenerateRequest{
		Domain:    domain,
		Norms:     norms,
		Effort:    effort,
		MaxTokens: g.config.LLM.MaxTokens,
	})
	if err != nil {
		return "", "", false, fmt.Errorf("generate policy for %q: %w", domain, err)
	}

	if g.cache != nil {
		_ = g.cache.Set(key, []byte(resp.Raw), 0)
	}

	return resp.Raw, resp.Model, false, nil
}

// endpoint returns the URL whose host the rate limiter throttles
func (g *Generator) endpoint() string {
	if g.config.LLM.BaseURL != "" {
		return g.config.LLM.BaseURL
	}
	switch g.provider.Name() {
	case "openai":
		return "https://api.openai.com"
	case "anthropic":
		return "https://api.anthropic.com"
	default:
		return "http://localhost:11434"
	}
}

// ReadNorms loads a norms file. Plain text passes through; .html and
// .htm files are reduced to their visible text.
func ReadNorms(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read norms file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err := extract.NormsText(string(data))
		if err != nil {
			return "", fmt.Errorf("parse HTML norms %s: %w", path, err)
		}
		return text, nil
	default:
		return string(data), nil
	}
}

// DomainFromPath derives a policy domain from the norms file location:
// the parent directory name, or "default-domain" at the filesystem root
func DomainFromPath(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return "default-domain"
	}
	return dir
}
