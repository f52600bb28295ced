package llm

import "fmt"

// BuildSystemPrompt constructs the system instruction: the model acts
// as a policy compiler emitting a fixed JSON shape for the domain
func BuildSystemPrompt(domain, effort string) string {
	return fmt.Sprintf(`You are a policy compiler. Generate a JSON policy specification from the given norms.

Output format:
{
  "domain": %q,
  "version": "1.0",
  "rules": [
    {
      "id": "rule_1",
      "description": "Clear description",
      "pattern": "regex_pattern",
      "severity": "low|medium|high|critical",
      "rationale": "Why this rule exists"
    }
  ],
  "metadata": {}
}

Reasoning effort: %s`, domain, effort)
}

// BuildUserPrompt constructs the user message: the norms text plus the
// response skeleton the extraction engine expects - a **THINKING:** /
// **POLICY:** marker pair with the policy in a fenced JSON block
func BuildUserPrompt(domain, norms string) string {
	return fmt.Sprintf(`Transform the following organizational norms into a structured JSON policy:

%s

Requirements:
- Generate regex patterns that can detect violations
- Provide clear rationale for each rule
- Include appropriate severity levels
- Show your reasoning process before the policy

**THINKING:**
[Detailed chain-of-thought analysis]

**POLICY:**
`+"```json"+`
{
  "domain": %q,
  "version": "1.0",
  "rules": [
    {
      "id": "rule_001",
      "description": "Rule description",
      "pattern": "regex_pattern_for_detection",
      "severity": "high|medium|low",
      "rationale": "Explanation for this rule"
    }
  ],
  "metadata": {}
}
`+"```", norms, domain)
}
