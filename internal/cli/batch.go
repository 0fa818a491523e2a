package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/pipeline"
	"github.com/rmehta/equinews/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Analyze multiple companies in parallel",
	Long: `Batch analyzes several companies concurrently and writes one JSON
result file per company. Companies are read from the input file (one
per line, # comments allowed); without a file, the configured company
list is used.

Example:
  equinews batch
  equinews batch companies.txt --concurrency 4
  equinews batch companies.txt --output-dir ./reports --timeout 20m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "number of concurrent analyses")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./equinews-reports", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	companies := cfg.Companies
	if len(args) == 1 {
		companies, err = readCompanies(args[0])
		if err != nil {
			return err
		}
	}
	if len(companies) == 0 {
		return fmt.Errorf("no companies to analyze")
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, _, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Analyzing %d companies with %d workers\n\n", len(companies), batchConcurrency)

	pool := worker.NewPool(ctx, batchConcurrency)
	pool.Start()
	defer pool.Shutdown()
	for _, company := range companies {
		pool.Submit(&analyzeJob{pipeline: p, company: company})
	}

	failed := 0
	for _, result := range pool.Wait() {
		r := result.(*analyzeResult)
		if r.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %-24s %v\n", r.company, r.err)
			continue
		}

		path := filepath.Join(batchOutputDir, companyFileName(r.company))
		if err := writeResult(path, r.result); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %-24s %v\n", r.company, err)
			continue
		}

		marker := ""
		if r.result.Degraded {
			marker = " (degraded)"
		}
		fmt.Fprintf(os.Stderr, "✓ %-24s %s → %s%s\n", r.company, r.result.Report.OverallSignal, path, marker)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(companies))
	}
	fmt.Fprintf(os.Stderr, "\nDone: %d results in %s\n", len(companies), batchOutputDir)
	return nil
}

type analyzeJob struct {
	pipeline *pipeline.Pipeline
	company  string
}

type analyzeResult struct {
	company string
	result  *model.AnalysisResult
	err     error
}

func (r *analyzeResult) GetError() error { return r.err }

func (j *analyzeJob) Execute(ctx context.Context) worker.Result {
	result, err := j.pipeline.Analyze(ctx, j.company)
	return &analyzeResult{company: j.company, result: result, err: err}
}

func readCompanies(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open companies file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var companies []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		companies = append(companies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read companies file: %w", err)
	}
	return companies, nil
}

func companyFileName(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug + ".json"
}

func writeResult(path string, result *model.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
