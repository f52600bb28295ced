package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ruleforge/ruleforge/internal/model"
	"github.com/ruleforge/ruleforge/internal/pipeline"
	"github.com/ruleforge/ruleforge/internal/policytest"
	"github.com/spf13/cobra"
)

var (
	testPolicyFile string
	testCasesFile  string
	testJSONOut    string
	testMDOut      string
	testWorkers    int
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate a policy against labeled test cases",
	Long: `Test runs every rule of a policy against every test case:
- A rule fires when its pattern matches anywhere in the case text
  (case-insensitive, anchors apply per line)
- Each case is scored against its expected violations
- Rules with broken patterns are skipped and reported as warnings
- Cases are evaluated in parallel; results keep input order

The command exits non-zero when any test fails.

Example:
  ruleforge test --policy policy.json --cases cases.json
  ruleforge test -p policy.json -c cases.json --json report.json --md report.md`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVarP(&testPolicyFile, "policy", "p", "", "policy JSON file (required)")
	testCmd.Flags().StringVarP(&testCasesFile, "cases", "c", "", "test cases JSON file (required)")
	testCmd.Flags().StringVar(&testJSONOut, "json", "", "output JSON report path (optional)")
	testCmd.Flags().StringVar(&testMDOut, "md", "", "output Markdown report path (optional)")
	testCmd.Flags().IntVar(&testWorkers, "workers", 0, "parallel evaluation workers (default: CPU count)")

	_ = testCmd.MarkFlagRequired("policy")
	_ = testCmd.MarkFlagRequired("cases")
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	policyData, err := os.ReadFile(testPolicyFile)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	policy, err := model.ParsePolicy(policyData)
	if err != nil {
		return fmt.Errorf("load policy from %s: %w", testPolicyFile, err)
	}

	casesData, err := os.ReadFile(testCasesFile)
	if err != nil {
		return fmt.Errorf("read cases file: %w", err)
	}
	cases, err := model.ParseTestCases(casesData)
	if err != nil {
		return fmt.Errorf("load test cases from %s: %w", testCasesFile, err)
	}

	workers := testWorkers
	if workers <= 0 {
		workers = cfg.Concurrency.EvalWorkers
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Testing %d cases against %d rules (%d workers)\n\n", len(cases), len(policy.Rules), workers)
	}

	report := policytest.NewSuite(policy, cases, workers).Run()

	printReport(report)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if testJSONOut != "" {
		if err := renderer.WriteReportJSON(report, testJSONOut); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", testJSONOut)
	}
	if testMDOut != "" {
		if err := renderer.WriteReportMarkdown(report, testMDOut); err != nil {
			return err
		}
		fmt.Printf("Markdown report saved to %s\n", testMDOut)
	}

	if report.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d tests failed", report.Summary.Failed, report.Summary.TotalTests)
	}
	return nil
}

// printReport renders the per-case table and the summary to stdout
func printReport(report *model.Report) {
	fmt.Printf("Policy Test Results: %s\n\n", report.Domain)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEST ID\tSTATUS\tSCORE\tVIOLATIONS\tISSUES")
	for _, res := range report.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}

		var issues []string
		if len(res.FalsePositives) > 0 {
			issues = append(issues, "FP: "+strings.Join(res.FalsePositives, ","))
		}
		if len(res.FalseNegatives) > 0 {
			issues = append(issues, "FN: "+strings.Join(res.FalseNegatives, ","))
		}

		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			res.TestID, status, res.Score,
			dashIfEmpty(strings.Join(res.ViolationsFound, ",")),
			dashIfEmpty(strings.Join(issues, "; ")))
	}
	_ = w.Flush()

	for _, warning := range report.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ rule %s skipped: %s\n", warning.RuleID, warning.Message)
	}

	s := report.Summary
	fmt.Printf("\nTests: %d  Passed: %d (%.1f%%)  Failed: %d  Average score: %.3f\n",
		s.TotalTests, s.Passed, s.PassRate*100, s.Failed, s.AverageScore)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
