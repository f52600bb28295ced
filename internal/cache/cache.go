package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw LLM responses so regenerating a policy from
// unchanged norms does not cost another model call
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResponseKey derives a cache key from everything that determines a
// model response: provider, model name, and the full prompt
func ResponseKey(provider, model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return "ruleforge:v1:" + hex.EncodeToString(h.Sum(nil))
}
