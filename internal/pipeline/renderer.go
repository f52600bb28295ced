package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruleforge/ruleforge/internal/model"
)

// Renderer persists generation and test artifacts. All content comes
// in as plain data; the renderer only formats and writes.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. includeFooter controls the trailing
// attribution line in Markdown outputs.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// SavePolicyPack writes the generation artifacts to dir: policy.json
// with the extracted draft and audit_notebook.md with the reasoning
// trace and any extraction diagnostic
func (r *Renderer) SavePolicyPack(res *GenerateResult, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	policyJSON, err := json.MarshalIndent(res.Extraction.Policy, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}
	policyPath := filepath.Join(dir, "policy.json")
	if err := os.WriteFile(policyPath, policyJSON, 0644); err != nil {
		return fmt.Errorf("write %s: %w", policyPath, err)
	}

	notebookPath := filepath.Join(dir, "audit_notebook.md")
	if err := os.WriteFile(notebookPath, []byte(r.auditNotebook(res)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", notebookPath, err)
	}

	return nil
}

// auditNotebook renders the reasoning trace as Markdown
func (r *Renderer) auditNotebook(res *GenerateResult) string {
	var b strings.Builder

	b.WriteString("# Policy Generation Audit Notebook\n\n")
	b.WriteString(fmt.Sprintf("**Domain:** %s\n\n", orUnknown(res.Extraction.Policy.Domain)))
	b.WriteString(fmt.Sprintf("**Version:** %s\n\n", orUnknown(res.Extraction.Policy.Version)))
	b.WriteString(fmt.Sprintf("**Model:** %s\n\n", orUnknown(res.Model)))

	if res.Extraction.Diagnostic != "" {
		b.WriteString(fmt.Sprintf("**Extraction diagnostic:** %s\n\n", res.Extraction.Diagnostic))
	}

	b.WriteString("## Chain-of-Thought Reasoning\n\n")
	if res.Extraction.ReasoningTrace != "" {
		b.WriteString(res.Extraction.ReasoningTrace)
	} else {
		b.WriteString("No reasoning captured.")
	}
	b.WriteString("\n")

	if r.includeFooter {
		b.WriteString("\n---\n\n*Generated by ruleforge*\n")
	}

	return b.String()
}

// WriteReportJSON writes a test report as indented JSON
func (r *Renderer) WriteReportJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReportMarkdown renders a test report as Markdown
func (r *Renderer) ReportMarkdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Policy Test Report: %s\n\n", report.Domain))
	b.WriteString(fmt.Sprintf("- Tests: %d\n", report.Summary.TotalTests))
	b.WriteString(fmt.Sprintf("- Passed: %d (%.1f%%)\n", report.Summary.Passed, report.Summary.PassRate*100))
	b.WriteString(fmt.Sprintf("- Failed: %d\n", report.Summary.Failed))
	b.WriteString(fmt.Sprintf("- Average score: %.3f\n\n", report.Summary.AverageScore))

	b.WriteString("| Test ID | Status | Score | Violations | Issues |\n")
	b.WriteString("|---------|--------|-------|------------|--------|\n")
	for _, res := range report.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}

		var issues []string
		if len(res.FalsePositives) > 0 {
			issues = append(issues, "FP: "+strings.Join(res.FalsePositives, ", "))
		}
		if len(res.FalseNegatives) > 0 {
			issues = append(issues, "FN: "+strings.Join(res.FalseNegatives, ", "))
		}

		b.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s | %s |\n",
			res.TestID, status, res.Score,
			orNone(strings.Join(res.ViolationsFound, ", ")),
			orNone(strings.Join(issues, "; "))))
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range report.Warnings {
			b.WriteString(fmt.Sprintf("- rule %s: %s\n", w.RuleID, w.Message))
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n*Generated by ruleforge*\n")
	}

	return b.String()
}

// WriteReportMarkdown writes the Markdown rendering of a report
func (r *Renderer) WriteReportMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.ReportMarkdown(report)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
