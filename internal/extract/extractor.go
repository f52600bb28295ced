package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ruleforge/ruleforge/internal/model"
)

// Extract recovers a policy draft and a reasoning trace from a raw
// model response. The response ideally contains a **THINKING:** ...
// **POLICY:** marker pair followed by a fenced JSON block, but models
// drift, so extraction runs an ordered chain of progressively more
// permissive strategies and never fails outright: the worst case is an
// empty policy with the full raw text preserved as the reasoning trace
// and a diagnostic explaining the degradation.
func Extract(raw string) model.ExtractionResult {
	trace := reasoningTrace(raw)

	for _, s := range strategies {
		if res, ok := s(raw, trace); ok {
			return res
		}
	}

	// Nothing JSON-looking anywhere: dump everything into the trace
	return model.ExtractionResult{
		ReasoningTrace: raw,
		Diagnostic:     "no structured policy found",
	}
}

// strategy attempts one way of locating the policy JSON. It returns
// ok=false to hand the raw text to the next strategy in the chain; a
// definitive result (including a definitive failure) returns ok=true.
type strategy func(raw, trace string) (model.ExtractionResult, bool)

// Ordered most-strict to most-permissive
var strategies = []strategy{
	fencedBlock,
	greedyBraces,
}

var (
	thinkingRe = regexp.MustCompile(`(?is)\*\*THINKING:\*\*(.*?)\*\*POLICY:\*\*`)
	fencedRe   = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
)

// reasoningTrace returns the trimmed text between the THINKING and
// POLICY markers, or "" when the marker pair is absent
func reasoningTrace(raw string) string {
	if m := thinkingRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// fencedBlock looks for a ```json fenced block. Anchoring the brace
// match to the closing fence keeps nested braces inside the object and
// trailing commentary after the fence out. A fenced block that does
// not parse is a definitive (degraded) result: the model clearly meant
// this to be the policy, so there is no point scavenging further.
func fencedBlock(raw, trace string) (model.ExtractionResult, bool) {
	m := fencedRe.FindStringSubmatch(raw)
	if m == nil {
		return model.ExtractionResult{}, false
	}

	policy, err := decodeDraft(m[1])
	if err != nil {
		if trace == "" {
			trace = raw
		}
		return model.ExtractionResult{
			ReasoningTrace: trace,
			Diagnostic:     fmt.Sprintf("fenced JSON block does not parse: %v", err),
		}, true
	}

	return model.ExtractionResult{
		Policy:         policy,
		ReasoningTrace: trace,
	}, true
}

// greedyBraces scavenges the whole response for a brace-delimited
// substring, deliberately greedy: first '{' to last '}'. Used when the
// model skipped the fence entirely.
func greedyBraces(raw, trace string) (model.ExtractionResult, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return model.ExtractionResult{}, false
	}

	policy, err := decodeDraft(raw[start : end+1])
	if err != nil {
		return model.ExtractionResult{}, false
	}

	if trace == "" {
		trace = raw
	}
	return model.ExtractionResult{
		Policy:         policy,
		ReasoningTrace: trace,
	}, true
}

// decodeDraft parses candidate JSON into a policy draft. Drafts are
// lenient - missing fields stay zero - because structural validation
// belongs to the load boundary (model.ParsePolicy), not extraction.
func decodeDraft(candidate string) (model.Policy, error) {
	var p model.Policy
	if err := json.Unmarshal([]byte(candidate), &p); err != nil {
		return model.Policy{}, err
	}
	return p, nil
}
