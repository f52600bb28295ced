package cache

import (
	"testing"
	"time"
)

func TestResponseKey_Distinct(t *testing.T) {
	a := ResponseKey("ollama", "gpt-oss:20b", "prompt one")
	b := ResponseKey("ollama", "gpt-oss:20b", "prompt two")
	c := ResponseKey("openai", "gpt-oss:20b", "prompt one")

	if a == b {
		t.Error("expected different prompts to produce different keys")
	}
	if a == c {
		t.Error("expected different providers to produce different keys")
	}
	if a != ResponseKey("ollama", "gpt-oss:20b", "prompt one") {
		t.Error("expected keys to be stable")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("response"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "response" {
		t.Errorf("expected hit with stored value, got %q found=%v", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := layered.Set("k", []byte("cached"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh layered cache over the same dir has a cold memory tier;
	// the value must come back from disk
	rebuilt := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := rebuilt.Get("k")
	if !found || string(val) != "cached" {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to be evicted on read")
	}
}
