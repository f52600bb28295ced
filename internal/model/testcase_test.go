package model

import (
	"strings"
	"testing"
)

func TestParseTestCases_BareArray(t *testing.T) {
	data := []byte(`[
		{"id": "t1", "text": "API_KEY = 'x'", "expected_violations": ["secret"]},
		{"id": "t2", "text": "clean", "expected_violations": []}
	]`)

	cases, err := ParseTestCases(data)
	if err != nil {
		t.Fatalf("ParseTestCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Category != "general" {
		t.Errorf("expected default category general, got %q", cases[0].Category)
	}
}

func TestParseTestCases_WrappedObject(t *testing.T) {
	data := []byte(`{"test_cases": [{"id": "t1", "text": "sample", "expected_violations": [], "category": "clean"}]}`)

	cases, err := ParseTestCases(data)
	if err != nil {
		t.Fatalf("ParseTestCases: %v", err)
	}
	if len(cases) != 1 || cases[0].Category != "clean" {
		t.Errorf("unexpected cases: %+v", cases)
	}
}

func TestParseTestCases_DuplicateExpectedCollapse(t *testing.T) {
	data := []byte(`[{"id": "t1", "text": "x", "expected_violations": ["a", "b", "a"]}]`)

	cases, err := ParseTestCases(data)
	if err != nil {
		t.Fatalf("ParseTestCases: %v", err)
	}
	if len(cases[0].ExpectedViolations) != 2 {
		t.Errorf("expected duplicates to collapse, got %v", cases[0].ExpectedViolations)
	}
}

func TestParseTestCases_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad json", `not json`, "decode test cases"},
		{"empty array", `[]`, "empty input"},
		{"empty wrapper", `{"test_cases": []}`, "empty input"},
		{"missing id", `[{"text": "x"}]`, `"id"`},
		{"missing text", `[{"id": "t1"}]`, `test case "t1"`},
		{"duplicate id", `[{"id": "t1", "text": "x"}, {"id": "t1", "text": "y"}]`, "duplicate test id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTestCases([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantErr, err)
			}
		})
	}
}
