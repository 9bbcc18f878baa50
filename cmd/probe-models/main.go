// Command probe-models sends a short prompt to every configured model and
// reports which ones answer with the current credential.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/config"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/llm"
	"go.uber.org/zap"
)

const defaultProbePrompt = "Reply with the single word: ok"

var (
	probePrompt  string
	probeModels  []string
	probeTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "probe-models",
	Short: "Check which configured models answer with the current API key",
	Long: `Sends one short prompt to every model of the fallback list, independently of
each other, and prints which ones answered. The provider, key and model list
come from the same environment variables as the server.

Example:
  AI_MODELS=gemini-1.5-flash,gemini-pro probe-models --timeout 10s`,
	SilenceUsage: true,
	RunE:         runProbe,
}

func init() {
	rootCmd.Flags().StringVar(&probePrompt, "prompt", defaultProbePrompt, "prompt sent to every model")
	rootCmd.Flags().StringSliceVar(&probeModels, "models", nil, "models to probe (defaults to the configured list)")
	rootCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "timeout per model")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ProbeResult is the outcome of one model
type ProbeResult struct {
	Model    string
	OK       bool
	NotFound bool
	Latency  time.Duration
	Err      error
}

func runProbe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.AIConfigured() {
		return errors.New("no API key configured; set GEMINI_API_KEY or AI_API_KEY")
	}

	ctx := cmd.Context()
	var gen llm.Generator
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		gen, err = llm.NewOpenAIClient(cfg.AI.APIKey, cfg.AI.Endpoint, logger)
	default:
		gen, err = llm.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.BaseURL, logger)
	}
	if err != nil {
		return err
	}

	models := probeModels
	if len(models) == 0 {
		models = cfg.AI.Models
	}

	results := probe(ctx, gen, models, probePrompt, probeTimeout)
	if failed := report(cmd.OutOrStdout(), results); failed == len(results) {
		return errors.New("no model could be reached")
	}
	return nil
}

// probe tries every model, unlike the server's sequence which stops at the first answer
func probe(ctx context.Context, gen llm.Generator, models []string, prompt string, timeout time.Duration) []ProbeResult {
	results := make([]ProbeResult, 0, len(models))
	for _, model := range models {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		text, err := gen.Generate(attemptCtx, model, prompt)
		cancel()

		if err == nil && strings.TrimSpace(text) == "" {
			err = llm.ErrEmptyResponse
		}
		results = append(results, ProbeResult{
			Model:    model,
			OK:       err == nil,
			NotFound: err != nil && llm.IsNotFound(err),
			Latency:  time.Since(start),
			Err:      err,
		})
	}
	return results
}

// report prints one line per model and returns the number of failures
func report(w io.Writer, results []ProbeResult) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.OK:
			fmt.Fprintf(w, "✅ %-24s %s\n", r.Model, r.Latency.Round(time.Millisecond))
		case r.NotFound:
			failed++
			fmt.Fprintf(w, "❌ %-24s not found\n", r.Model)
		default:
			failed++
			fmt.Fprintf(w, "❌ %-24s %v\n", r.Model, r.Err)
		}
	}
	fmt.Fprintf(w, "%d/%d models reachable\n", len(results)-failed, len(results))
	return failed
}
