package policytest

import (
	"context"
	"runtime"

	"github.com/ruleforge/ruleforge/internal/model"
	"github.com/ruleforge/ruleforge/internal/worker"
)

// Suite validates one policy against an ordered list of test cases
type Suite struct {
	policy  *model.Policy
	cases   []model.TestCase
	workers int
}

// NewSuite creates a suite. workers bounds parallel case evaluation;
// values <= 0 default to the number of CPUs.
func NewSuite(policy *model.Policy, cases []model.TestCase, workers int) *Suite {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Suite{
		policy:  policy,
		cases:   cases,
		workers: workers,
	}
}

// caseJob evaluates one test case on a pool worker
type caseJob struct {
	index  int
	policy *model.Policy
	tc     model.TestCase
}

// caseOutcome carries the evaluation back with its input position so
// the report stays ordered regardless of completion order
type caseOutcome struct {
	index    int
	result   model.TestResult
	warnings []model.RuleWarning
}

func (o *caseOutcome) GetError() error { return nil }

func (j *caseJob) Execute(_ context.Context) worker.Result {
	result, warnings := EvaluateCase(j.policy, j.tc)
	return &caseOutcome{index: j.index, result: result, warnings: warnings}
}

// Run evaluates every case and aggregates the outcomes into a report.
// Cases are independent, side-effect-free computations, so they run in
// parallel across the pool; results are re-ordered by input sequence
// before aggregation.
func (s *Suite) Run() *model.Report {
	results := make([]model.TestResult, len(s.cases))
	caseWarnings := make([][]model.RuleWarning, len(s.cases))

	if len(s.cases) > 0 {
		pool := worker.NewPool(s.workers)
		pool.Start()
		for i, tc := range s.cases {
			pool.Submit(&caseJob{index: i, policy: s.policy, tc: tc})
		}
		for _, r := range pool.Wait() {
			o := r.(*caseOutcome)
			results[o.index] = o.result
			caseWarnings[o.index] = o.warnings
		}
	}

	// Rule warnings repeat per case; the report keeps one per rule,
	// collected in input order so output stays deterministic
	warned := make(map[string]bool)
	var warnings []model.RuleWarning
	for _, ws := range caseWarnings {
		for _, w := range ws {
			if !warned[w.RuleID] {
				warned[w.RuleID] = true
				warnings = append(warnings, w)
			}
		}
	}

	return &model.Report{
		Domain:   s.policy.Domain,
		Summary:  summarize(results),
		Results:  results,
		Warnings: warnings,
	}
}

// RunSuite is the one-shot form: evaluate all cases against the policy
// with default parallelism and return the report
func RunSuite(policy *model.Policy, cases []model.TestCase) *model.Report {
	return NewSuite(policy, cases, 0).Run()
}

// summarize computes the aggregate statistics. An empty run yields
// zero rates, not a division error.
func summarize(results []model.TestResult) model.Summary {
	total := len(results)
	if total == 0 {
		return model.Summary{}
	}

	passed := 0
	scoreSum := 0.0
	for _, r := range results {
		if r.Passed {
			passed++
		}
		scoreSum += r.Score
	}

	return model.Summary{
		TotalTests:   total,
		Passed:       passed,
		Failed:       total - passed,
		PassRate:     float64(passed) / float64(total),
		AverageScore: scoreSum / float64(total),
	}
}
