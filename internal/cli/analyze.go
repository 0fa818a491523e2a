package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	analyzeTimeout time.Duration
	analyzeOut     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <company>",
	Short: "Analyze news coverage for one company",
	Long: `Analyze runs the full pipeline for a single company and prints the
result as JSON: fetched articles with summaries and sentiment, the
comparative report, and the rendered audio clip location.

Example:
  equinews analyze "Tesla"
  equinews analyze "Reliance Industries" --out result.json
  equinews analyze Infosys --timeout 5m -v`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write JSON result to file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	company := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	p, _, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	result, err := p.Analyze(ctx, company)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if analyzeOut != "" {
		if err := os.WriteFile(analyzeOut, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", analyzeOut)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
