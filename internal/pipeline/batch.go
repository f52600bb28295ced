package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ruleforge/ruleforge/internal/worker"
)

// PolicyGenerator is the part of Generator that batch processing needs
type PolicyGenerator interface {
	GenerateFromFile(ctx context.Context, path, effort string) (*GenerateResult, string, error)
}

// BatchResult is the outcome of generating one policy in a batch
type BatchResult struct {
	Path   string // Norms file the policy was generated from
	Domain string
	Result *GenerateResult
	Error  error
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// generateJob generates one policy on a pool worker
type generateJob struct {
	path      string
	effort    string
	generator PolicyGenerator
}

func (j *generateJob) Execute(ctx context.Context) worker.Result {
	result, domain, err := j.generator.GenerateFromFile(ctx, j.path, j.effort)
	return &BatchResult{
		Path:   j.path,
		Domain: domain,
		Result: result,
		Error:  err,
	}
}

// BatchProcessor generates policies for many norms files concurrently
type BatchProcessor struct {
	generator   PolicyGenerator
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(generator PolicyGenerator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
	}
}

// ProcessPaths generates a policy for each norms file concurrently.
// Per-file failures land in their BatchResult; they never abort the
// rest of the batch.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string, effort string) []*BatchResult {
	if len(paths) == 0 {
		return []*BatchResult{}
	}

	pool := worker.NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&generateJob{
			path:      path,
			effort:    effort,
			generator: b.generator,
		})
	}

	results := pool.Wait()

	batchResults := make([]*BatchResult, len(results))
	for i, result := range results {
		batchResults[i] = result.(*BatchResult)
	}
	return batchResults
}

// ProcessFile reads norms file paths from a list file and processes
// them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath, effort string) ([]*BatchResult, error) {
	paths, err := ReadNormsList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read norms list: %w", err)
	}
	return b.ProcessPaths(ctx, paths, effort), nil
}

// ReadNormsList reads norms file paths from a file (one per line,
// blank lines and # comments skipped, duplicates dropped)
func ReadNormsList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
