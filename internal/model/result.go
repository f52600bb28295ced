package model

// TestResult is the outcome of running a single test case against a policy
type TestResult struct {
	TestID          string   `json:"test_id"`
	ViolationsFound []string `json:"violations_found"` // Rule IDs whose pattern matched
	Passed          bool     `json:"passed"`           // found == expected, as sets
	FalsePositives  []string `json:"false_positives"`  // Triggered but not expected
	FalseNegatives  []string `json:"false_negatives"`  // Expected but not triggered
	Score           float64  `json:"score"`            // 1.0 = perfect, 0.0 = completely wrong
}

// RuleWarning reports a rule that was skipped during evaluation,
// typically because its pattern does not compile. Skipped rules never
// count as matches and never stop evaluation of other rules.
type RuleWarning struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// Summary holds the aggregate statistics over a test run
type Summary struct {
	TotalTests   int     `json:"total_tests"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	PassRate     float64 `json:"pass_rate"`     // 0.0 when there are no tests
	AverageScore float64 `json:"average_score"` // 0.0 when there are no tests
}

// Report is the complete result of validating a policy against a test
// suite: aggregate summary, per-case results in input order, and any
// rule warnings collected along the way
type Report struct {
	Domain   string        `json:"domain"`
	Summary  Summary       `json:"summary"`
	Results  []TestResult  `json:"results"`
	Warnings []RuleWarning `json:"warnings,omitempty"`
}

// ExtractionResult is the structured-vs-free-text split recovered from
// a raw model response. Extraction never fails outright: degraded input
// degrades to an empty policy plus a diagnostic, with the raw text
// preserved in the reasoning trace.
type ExtractionResult struct {
	Policy         Policy `json:"policy"`               // Draft policy; zero value if nothing parsed
	ReasoningTrace string `json:"reasoning_trace"`      // Chain-of-thought text, possibly the full raw response
	Diagnostic     string `json:"diagnostic,omitempty"` // Why extraction fell back to a degraded result
}
