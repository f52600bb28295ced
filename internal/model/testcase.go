package model

import (
	"encoding/json"
	"fmt"
)

// TestCase is a labeled text sample: the content to classify plus the
// rule ids expected to fire on it
type TestCase struct {
	ID                 string   `json:"id"`                    // Test case identifier
	Text               string   `json:"text"`                  // Text content to test
	ExpectedViolations []string `json:"expected_violations"`   // Rule IDs expected to be triggered (a set)
	Description        string   `json:"description,omitempty"` // Test case description
	Category           string   `json:"category,omitempty"`    // Test category
}

// caseFile is the wrapper form of a test-case file:
// {"test_cases": [...]}
type caseFile struct {
	TestCases []TestCase `json:"test_cases"`
}

// ParseTestCases decodes and validates test cases from JSON. The input
// may be either a bare array of case objects or an object with a
// "test_cases" array. Each case must carry an id and text; anything
// structurally wrong fails the whole load with an error naming the
// offending case.
func ParseTestCases(data []byte) ([]TestCase, error) {
	var cases []TestCase

	if err := json.Unmarshal(data, &cases); err != nil {
		var wrapped caseFile
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode test cases: %w", err)
		}
		cases = wrapped.TestCases
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("test cases: empty input (expected an array or a %q object)", "test_cases")
	}

	seen := make(map[string]bool, len(cases))
	for i := range cases {
		c := &cases[i]
		if c.ID == "" {
			return nil, fmt.Errorf("test case %d: missing required field %q", i, "id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("test case %q: duplicate test id", c.ID)
		}
		seen[c.ID] = true

		if c.Text == "" {
			return nil, fmt.Errorf("test case %q: missing required field %q", c.ID, "text")
		}
		if c.Category == "" {
			c.Category = "general"
		}
		// expected_violations is a set: collapse duplicates, keep order
		c.ExpectedViolations = dedupe(c.ExpectedViolations)
	}

	return cases, nil
}

func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
