package model

import (
	"strings"
	"testing"
)

func TestParsePolicy_Valid(t *testing.T) {
	data := []byte(`{
		"domain": "code-review",
		"version": "2.0",
		"rules": [
			{"id": "secret", "description": "key", "pattern": "API_KEY\\s*=", "severity": "high", "rationale": "why"},
			{"id": "todo", "description": "stray todo", "pattern": "TODO"}
		],
		"metadata": {"source": "norms.txt"}
	}`)

	p, err := ParsePolicy(data)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if p.Domain != "code-review" || p.Version != "2.0" {
		t.Errorf("unexpected header: %+v", p)
	}
	if len(p.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(p.Rules))
	}
	// Missing severity defaults to medium
	if p.Rules[1].Severity != SeverityMedium {
		t.Errorf("expected default severity medium, got %q", p.Rules[1].Severity)
	}
}

func TestParsePolicy_DefaultsVersion(t *testing.T) {
	p, err := ParsePolicy([]byte(`{"domain": "d", "rules": [{"id": "r", "description": "d", "pattern": "x"}]}`))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if p.Version != "1.0" {
		t.Errorf("expected default version 1.0, got %q", p.Version)
	}
}

func TestParsePolicy_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad json", `{nope`, "decode policy"},
		{"missing domain", `{"rules": [{"id": "r", "description": "d", "pattern": "x"}]}`, `"domain"`},
		{"missing rules", `{"domain": "d"}`, `"rules"`},
		{"missing rule id", `{"domain": "d", "rules": [{"description": "d", "pattern": "x"}]}`, `"id"`},
		{"missing description", `{"domain": "d", "rules": [{"id": "r", "pattern": "x"}]}`, `rule "r"`},
		{"missing pattern", `{"domain": "d", "rules": [{"id": "r", "description": "d"}]}`, `"pattern"`},
		{"duplicate id", `{"domain": "d", "rules": [
			{"id": "r", "description": "d", "pattern": "x"},
			{"id": "r", "description": "d", "pattern": "y"}]}`, "duplicate rule id"},
		{"bad severity", `{"domain": "d", "rules": [{"id": "r", "description": "d", "pattern": "x", "severity": "fatal"}]}`, "invalid severity"},
		{"bad threshold", `{"domain": "d", "rules": [{"id": "r", "description": "d", "pattern": "x", "threshold": 1.5}]}`, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestParsePolicy_InvalidPatternStillLoads(t *testing.T) {
	// A broken regex is an evaluation-time warning, not a load failure
	p, err := ParsePolicy([]byte(`{"domain": "d", "rules": [{"id": "r", "description": "d", "pattern": "[unclosed"}]}`))
	if err != nil {
		t.Fatalf("expected broken pattern to load, got %v", err)
	}
	if _, err := CompileRule(p.Rules[0]); err == nil {
		t.Error("expected CompileRule to reject the broken pattern")
	}
}

func TestCompileRule_Semantics(t *testing.T) {
	re, err := CompileRule(Rule{Pattern: `^api_key`})
	if err != nil {
		t.Fatalf("CompileRule: %v", err)
	}
	if !re.MatchString("first line\nAPI_KEY = 1") {
		t.Error("expected case-insensitive, per-line anchored matching")
	}
}
