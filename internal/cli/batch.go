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
	batchListFile    string
	batchEffort      string
	batchOutputDir   string
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate policy packs for a list of norms files",
	Long: `Batch reads norms file paths from a list file (one per line, blank
lines and # comments skipped) and generates a policy pack for each,
concurrently. A failed file is reported and skipped; it never aborts
the rest of the batch.

Each pack is saved under the output directory in a subdirectory named
after the norms file's domain.

Example:
  ruleforge batch --file norms-list.txt
  ruleforge batch --file norms-list.txt --concurrency 8 --output-dir ./packs`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchListFile, "file", "f", "", "file listing norms file paths (required)")
	batchCmd.Flags().StringVarP(&batchEffort, "effort", "e", "medium", "reasoning effort: low/medium/high")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "generated", "directory for generated policy packs")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent generations (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")

	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if err := applyProviderEnv(cfg); err != nil {
		return err
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	gen, err := pipeline.NewGenerator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := pipeline.NewBatchProcessor(gen, concurrency)
	results, err := processor.ProcessFile(ctx, batchListFile, batchEffort)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No norms files listed, nothing to do")
		return nil
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	var failed int
	for _, res := range results {
		if res.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}

		packDir := filepath.Join(batchOutputDir, packName(res))
		if err := renderer.SavePolicyPack(res.Result, packDir); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: save policy pack: %v\n", res.Path, err)
			continue
		}

		fmt.Printf("✓ %s → %s (%d rules)\n", res.Path, packDir, len(res.Result.Extraction.Policy.Rules))
		if res.Result.Extraction.Diagnostic != "" {
			fmt.Fprintf(os.Stderr, "  ⚠ extraction degraded: %s\n", res.Result.Extraction.Diagnostic)
		}
	}

	fmt.Printf("\nBatch complete: %d succeeded, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d generations failed", failed, len(results))
	}
	return nil
}

// packName picks a unique-enough directory name for one batch result.
// Domains repeat across norms files, so the file stem is appended when
// it differs from the domain.
func packName(res *pipeline.BatchResult) string {
	stem := filepath.Base(res.Path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	if stem == res.Domain || stem == "norms" {
		return res.Domain
	}
	return res.Domain + "-" + stem
}
