package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ruleforge/ruleforge/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	genInput    string
	genEffort   string
	genOutput   string
	genProvider string
	genModel    string
	genNoCache  bool
	genTimeout  time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a policy pack from a norms file",
	Long: `Generate compiles free-text organizational norms into a structured
JSON policy via a language model:
- Read norms from a text or HTML file
- Prompt the configured model for rules with patterns and rationale
- Extract the policy JSON and chain-of-thought from the response
- Save policy.json and audit_notebook.md as a policy pack

Degraded model output never aborts generation: the raw response is
preserved in the audit notebook together with a diagnostic.

Example:
  ruleforge generate --input norms.txt
  ruleforge generate --input norms.txt --effort high --output ./generated
  ruleforge generate --input norms.html --provider openai --model gpt-4o-mini`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "input norms file (required)")
	generateCmd.Flags().StringVarP(&genEffort, "effort", "e", "medium", "reasoning effort: low/medium/high")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output directory (default: <input dir>/generated)")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	generateCmd.Flags().StringVar(&genModel, "model", "", "LLM model name")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "disable response cache (force a fresh model call)")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 3*time.Minute, "overall generation timeout")

	_ = generateCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(genInput); err != nil {
		return fmt.Errorf("input file not found: %s", genInput)
	}

	cfg := buildConfig()
	if genProvider != "" {
		cfg.LLM.Provider = genProvider
	}
	if genModel != "" {
		cfg.LLM.Model = genModel
	}
	if genNoCache {
		cfg.Cache.Enabled = false
	}
	if err := applyProviderEnv(cfg); err != nil {
		return err
	}

	outputDir := genOutput
	if outputDir == "" {
		outputDir = filepath.Join(filepath.Dir(genInput), "generated")
	}

	gen, err := pipeline.NewGenerator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Input: %s\n", genInput)
		fmt.Fprintf(os.Stderr, "Provider: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Effort: %s\n", genEffort)
		fmt.Fprintln(os.Stderr)
	}

	result, domain, err := gen.GenerateFromFile(ctx, genInput, genEffort)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if verbose {
		if result.CacheHit {
			fmt.Fprintln(os.Stderr, "✓ Served from response cache")
		}
		fmt.Fprintf(os.Stderr, "✓ Extracted %d rules for domain %s\n", len(result.Extraction.Policy.Rules), domain)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.SavePolicyPack(result, outputDir); err != nil {
		return fmt.Errorf("save policy pack: %w", err)
	}

	fmt.Printf("Policy pack saved to %s\n", outputDir)
	fmt.Printf("  • policy.json (%d rules)\n", len(result.Extraction.Policy.Rules))
	fmt.Printf("  • audit_notebook.md\n")

	if result.Extraction.Diagnostic != "" {
		fmt.Fprintf(os.Stderr, "⚠ Extraction degraded: %s\n", result.Extraction.Diagnostic)
		fmt.Fprintln(os.Stderr, "  See audit_notebook.md for the full raw response.")
	}

	return nil
}
