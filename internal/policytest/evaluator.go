package policytest

import (
	"sort"

	"github.com/ruleforge/ruleforge/internal/model"
)

// EvaluateCase runs one test case against one policy and produces
// exactly one result. Every rule is evaluated independently - there is
// no short-circuiting once a rule has fired. A rule whose pattern does
// not compile is skipped and reported as a warning alongside (never
// instead of) the result.
func EvaluateCase(policy *model.Policy, tc model.TestCase) (model.TestResult, []model.RuleWarning) {
	var warnings []model.RuleWarning

	var found []string
	foundSet := make(map[string]bool)
	for _, rule := range policy.Rules {
		re, err := model.CompileRule(rule)
		if err != nil {
			warnings = append(warnings, model.RuleWarning{
				RuleID:  rule.ID,
				Message: "invalid pattern: " + err.Error(),
			})
			continue
		}
		if re.MatchString(tc.Text) && !foundSet[rule.ID] {
			foundSet[rule.ID] = true
			found = append(found, rule.ID)
		}
	}

	expectedSet := make(map[string]bool, len(tc.ExpectedViolations))
	for _, id := range tc.ExpectedViolations {
		expectedSet[id] = true
	}

	falsePositives := diff(foundSet, expectedSet)
	falseNegatives := diff(expectedSet, foundSet)
	passed := len(falsePositives) == 0 && len(falseNegatives) == 0

	return model.TestResult{
		TestID:          tc.ID,
		ViolationsFound: found,
		Passed:          passed,
		FalsePositives:  falsePositives,
		FalseNegatives:  falseNegatives,
		Score:           score(expectedSet, foundSet),
	}, warnings
}

// score implements the case scoring formula:
//   - nothing expected, nothing found: 1.0
//   - nothing expected, anything found: 0.0 (clean sample, total failure)
//   - otherwise: max(0, (correct - errors) / expected), where errors
//     counts both false positives and false negatives
//
// The clean-sample special case is deliberate and stricter than the
// general formula would be; it must not be generalized away.
func score(expected, found map[string]bool) float64 {
	if len(expected) == 0 {
		if len(found) == 0 {
			return 1.0
		}
		return 0.0
	}

	correct := 0
	for id := range expected {
		if found[id] {
			correct++
		}
	}
	errors := (len(found) - correct) + (len(expected) - correct)

	s := float64(correct-errors) / float64(len(expected))
	if s < 0 {
		return 0.0
	}
	return s
}

// diff returns the members of a that are not in b, sorted for
// deterministic output
func diff(a, b map[string]bool) []string {
	var out []string
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
