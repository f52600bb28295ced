package model

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Rule is a single named detector: a regex pattern plus metadata
type Rule struct {
	ID          string   `json:"id"`                  // Unique rule identifier
	Description string   `json:"description"`         // Human-readable rule description
	Pattern     string   `json:"pattern"`             // Regex pattern for matching violations
	Severity    Severity `json:"severity"`            // low, medium, high, critical
	Threshold   *float64 `json:"threshold,omitempty"` // Optional confidence threshold (0.0-1.0)
	Rationale   string   `json:"rationale,omitempty"` // Reasoning for this rule
}

// Severity classifies how serious a rule violation is.
// Informational only - it never affects test scoring.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known levels
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Policy is a versioned set of pattern rules for one domain
type Policy struct {
	Domain   string         `json:"domain"`             // Policy domain (e.g., content-moderation)
	Version  string         `json:"version"`            // Policy version
	Rules    []Rule         `json:"rules"`              // Ordered list of rules (order affects display only)
	Metadata map[string]any `json:"metadata,omitempty"` // Opaque to the engine
}

// ParsePolicy decodes and validates a policy from JSON.
// It returns either a fully validated policy or a descriptive error
// naming the missing/invalid field and the offending rule - never a
// partially constructed one.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the policy invariants: required fields, unique rule
// ids, known severities. Missing version defaults to "1.0" and missing
// severity to medium, matching the persisted policy format. Patterns
// are not compiled here - an individually broken pattern must not make
// the whole policy unloadable (the evaluator skips it with a warning).
func (p *Policy) Validate() error {
	if p.Domain == "" {
		return fmt.Errorf("policy: missing required field %q", "domain")
	}
	if p.Version == "" {
		p.Version = "1.0"
	}
	if len(p.Rules) == 0 {
		return fmt.Errorf("policy %q: missing required field %q", p.Domain, "rules")
	}

	seen := make(map[string]bool, len(p.Rules))
	for i := range p.Rules {
		r := &p.Rules[i]
		if r.ID == "" {
			return fmt.Errorf("policy %q: rule %d: missing required field %q", p.Domain, i, "id")
		}
		if seen[r.ID] {
			return fmt.Errorf("policy %q: rule %q: duplicate rule id", p.Domain, r.ID)
		}
		seen[r.ID] = true

		if r.Description == "" {
			return fmt.Errorf("policy %q: rule %q: missing required field %q", p.Domain, r.ID, "description")
		}
		if r.Pattern == "" {
			return fmt.Errorf("policy %q: rule %q: missing required field %q", p.Domain, r.ID, "pattern")
		}
		if r.Severity == "" {
			r.Severity = SeverityMedium
		}
		if !r.Severity.Valid() {
			return fmt.Errorf("policy %q: rule %q: invalid severity %q", p.Domain, r.ID, r.Severity)
		}
		if r.Threshold != nil && (*r.Threshold < 0 || *r.Threshold > 1) {
			return fmt.Errorf("policy %q: rule %q: threshold %v out of range [0,1]", p.Domain, r.ID, *r.Threshold)
		}
	}

	return nil
}

// CompileRule compiles a rule pattern with case-insensitive, per-line
// anchor semantics - the matching mode every rule is evaluated under.
func CompileRule(r Rule) (*regexp.Regexp, error) {
	return regexp.Compile("(?im)" + r.Pattern)
}
