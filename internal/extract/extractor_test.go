package extract

import (
	"strings"
	"testing"
)

const wellFormed = `Some preamble from the model.

**THINKING:**
First I identify the norms about secrets, then I derive patterns.
**POLICY:**
` + "```json" + `
{
  "domain": "code-review",
  "version": "1.0",
  "rules": [
    {
      "id": "secret",
      "description": "Hardcoded API key",
      "pattern": "API_KEY\\s*=",
      "severity": "high",
      "rationale": "Secrets must not live in source"
    }
  ],
  "metadata": {"generator": "test"}
}
` + "```" + `

That concludes the policy.`

func TestExtract_WellFormed(t *testing.T) {
	res := Extract(wellFormed)

	if res.Diagnostic != "" {
		t.Fatalf("expected no diagnostic, got %q", res.Diagnostic)
	}

	wantTrace := "First I identify the norms about secrets, then I derive patterns."
	if res.ReasoningTrace != wantTrace {
		t.Errorf("expected trace %q, got %q", wantTrace, res.ReasoningTrace)
	}

	if res.Policy.Domain != "code-review" {
		t.Errorf("expected domain code-review, got %q", res.Policy.Domain)
	}
	if len(res.Policy.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(res.Policy.Rules))
	}
	if res.Policy.Rules[0].ID != "secret" {
		t.Errorf("expected rule id secret, got %q", res.Policy.Rules[0].ID)
	}
	if res.Policy.Rules[0].Pattern != `API_KEY\s*=` {
		t.Errorf("unexpected pattern %q", res.Policy.Rules[0].Pattern)
	}
}

func TestExtract_TrailingCommentaryExcluded(t *testing.T) {
	raw := "```json\n{\"domain\": \"d\", \"rules\": []}\n```\nNote: braces here { should not leak }"

	res := Extract(raw)
	if res.Diagnostic != "" {
		t.Fatalf("expected clean parse, got diagnostic %q", res.Diagnostic)
	}
	if res.Policy.Domain != "d" {
		t.Errorf("expected domain d, got %q", res.Policy.Domain)
	}
}

func TestExtract_NestedBraces(t *testing.T) {
	raw := "```json\n{\"domain\": \"d\", \"metadata\": {\"nested\": {\"deep\": true}}, \"rules\": []}\n```"

	res := Extract(raw)
	if res.Diagnostic != "" {
		t.Fatalf("expected clean parse, got diagnostic %q", res.Diagnostic)
	}
	if res.Policy.Metadata == nil {
		t.Error("expected nested metadata to survive parsing")
	}
}

func TestExtract_FencedParseFailure(t *testing.T) {
	raw := "**THINKING:**\nreasoning here\n**POLICY:**\n```json\n{not valid json}\n```"

	res := Extract(raw)
	if res.Diagnostic == "" {
		t.Fatal("expected a diagnostic for broken fenced JSON")
	}
	if len(res.Policy.Rules) != 0 {
		t.Errorf("expected empty policy, got %d rules", len(res.Policy.Rules))
	}
	// Step 1 produced a trace, so it must be kept
	if res.ReasoningTrace != "reasoning here" {
		t.Errorf("expected marker trace to survive, got %q", res.ReasoningTrace)
	}
}

func TestExtract_FencedParseFailureNoMarkers(t *testing.T) {
	raw := "```json\n{broken\n```"

	res := Extract(raw)
	if res.Diagnostic == "" {
		t.Fatal("expected a diagnostic")
	}
	// No marker trace: the full raw text becomes the trace
	if res.ReasoningTrace != raw {
		t.Errorf("expected full raw text as trace, got %q", res.ReasoningTrace)
	}
}

func TestExtract_GreedyFallback(t *testing.T) {
	raw := `The model forgot the fence. {"domain": "loose", "rules": []} Done.`

	res := Extract(raw)
	if res.Policy.Domain != "loose" {
		t.Fatalf("expected greedy fallback to parse, got domain %q (diagnostic %q)", res.Policy.Domain, res.Diagnostic)
	}
	// No markers, so the trace falls back to the full raw text
	if res.ReasoningTrace != raw {
		t.Errorf("expected full raw text as trace, got %q", res.ReasoningTrace)
	}
}

func TestExtract_GreedyKeepsMarkerTrace(t *testing.T) {
	raw := "**THINKING:**\ndeliberation\n**POLICY:**\n{\"domain\": \"loose\", \"rules\": []}"

	res := Extract(raw)
	if res.Policy.Domain != "loose" {
		t.Fatalf("expected greedy parse, got %q", res.Policy.Domain)
	}
	if res.ReasoningTrace != "deliberation" {
		t.Errorf("expected marker trace, got %q", res.ReasoningTrace)
	}
}

func TestExtract_NoJSONAnywhere(t *testing.T) {
	for _, raw := range []string{
		"just prose, nothing structured",
		"unbalanced } then { nothing",
		strings.Repeat("long response without structure. ", 5000),
	} {
		res := Extract(raw)
		if len(res.Policy.Rules) != 0 {
			t.Errorf("expected empty rules for %.40q", raw)
		}
		if res.ReasoningTrace != raw {
			t.Errorf("expected trace to equal raw text for %.40q", raw)
		}
		if res.Diagnostic != "no structured policy found" {
			t.Errorf("expected degradation diagnostic, got %q", res.Diagnostic)
		}
	}
}

func TestExtract_EmptyString(t *testing.T) {
	res := Extract("")
	if len(res.Policy.Rules) != 0 || res.ReasoningTrace != "" {
		t.Errorf("unexpected result for empty input: %+v", res)
	}
	if res.Diagnostic == "" {
		t.Error("expected a diagnostic for empty input")
	}
}

func TestExtract_MarkersCaseInsensitive(t *testing.T) {
	raw := "**thinking:**\nlowercase markers\n**policy:**\n```json\n{\"domain\": \"d\", \"rules\": []}\n```"

	res := Extract(raw)
	if res.ReasoningTrace != "lowercase markers" {
		t.Errorf("expected case-insensitive marker match, got trace %q", res.ReasoningTrace)
	}
}

func TestNormsText_StripsMarkup(t *testing.T) {
	htmlDoc := `
	<html>
	<head><title>ignored</title><style>p { color: red }</style></head>
	<body>
		<h1>Code Review Policy</h1>
		<p>No hardcoded secrets in source code.</p>
		<script>console.log("ignored")</script>
	</body>
	</html>`

	text, err := NormsText(htmlDoc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(text, "Code Review Policy") || !strings.Contains(text, "No hardcoded secrets") {
		t.Errorf("expected visible text to survive, got %q", text)
	}
	if strings.Contains(text, "console.log") || strings.Contains(text, "color: red") {
		t.Errorf("expected script/style to be stripped, got %q", text)
	}
}
