package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruleforge/ruleforge/internal/model"
)

func TestRenderer_SavePolicyPack(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(true)

	res := &GenerateResult{
		Extraction: model.ExtractionResult{
			Policy: model.Policy{
				Domain:  "code-review",
				Version: "1.0",
				Rules: []model.Rule{
					{ID: "secret", Description: "key", Pattern: "API_KEY", Severity: model.SeverityHigh},
				},
			},
			ReasoningTrace: "derived one rule",
		},
		Model: "gpt-oss:20b",
	}

	if err := r.SavePolicyPack(res, dir); err != nil {
		t.Fatalf("SavePolicyPack: %v", err)
	}

	policyData, err := os.ReadFile(filepath.Join(dir, "policy.json"))
	if err != nil {
		t.Fatalf("read policy.json: %v", err)
	}
	reloaded, err := model.ParsePolicy(policyData)
	if err != nil {
		t.Fatalf("saved policy must round-trip through ParsePolicy: %v", err)
	}
	if reloaded.Domain != "code-review" || len(reloaded.Rules) != 1 {
		t.Errorf("unexpected reloaded policy: %+v", reloaded)
	}

	notebook, err := os.ReadFile(filepath.Join(dir, "audit_notebook.md"))
	if err != nil {
		t.Fatalf("read audit_notebook.md: %v", err)
	}
	text := string(notebook)
	if !strings.Contains(text, "derived one rule") {
		t.Error("expected notebook to carry the reasoning trace")
	}
	if !strings.Contains(text, "code-review") || !strings.Contains(text, "gpt-oss:20b") {
		t.Error("expected notebook header to carry domain and model")
	}
	if !strings.Contains(text, "Generated by ruleforge") {
		t.Error("expected footer when includeFooter is set")
	}
}

func TestRenderer_NotebookDegradedExtraction(t *testing.T) {
	r := NewRenderer(false)
	res := &GenerateResult{
		Extraction: model.ExtractionResult{
			ReasoningTrace: "the whole raw response",
			Diagnostic:     "no structured policy found",
		},
	}

	text := r.auditNotebook(res)
	if !strings.Contains(text, "no structured policy found") {
		t.Error("expected diagnostic in notebook")
	}
	if strings.Contains(text, "Generated by ruleforge") {
		t.Error("expected no footer when includeFooter is off")
	}
}

func TestRenderer_ReportOutputs(t *testing.T) {
	report := &model.Report{
		Domain: "code-review",
		Summary: model.Summary{
			TotalTests: 2, Passed: 1, Failed: 1,
			PassRate: 0.5, AverageScore: 0.5,
		},
		Results: []model.TestResult{
			{TestID: "t1", ViolationsFound: []string{"secret"}, Passed: true, Score: 1.0},
			{TestID: "t2", FalseNegatives: []string{"secret"}, Passed: false, Score: 0.0},
		},
		Warnings: []model.RuleWarning{{RuleID: "broken", Message: "invalid pattern"}},
	}

	r := NewRenderer(false)
	md := r.ReportMarkdown(report)
	for _, want := range []string{"t1", "t2", "PASS", "FAIL", "FN: secret", "broken"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown report to contain %q", want)
		}
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := r.WriteReportJSON(report, path); err != nil {
		t.Fatalf("WriteReportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var reloaded model.Report
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("report JSON must round-trip: %v", err)
	}
	if reloaded.Summary.TotalTests != 2 {
		t.Errorf("unexpected reloaded report: %+v", reloaded.Summary)
	}
}
