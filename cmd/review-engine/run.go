// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/analyze"
	"github.com/pdiddy/review-engine/internal/llm"
	"github.com/pdiddy/review-engine/internal/logging"
	"github.com/pdiddy/review-engine/internal/review"
	"github.com/pdiddy/review-engine/internal/secrets"
	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/internal/synthesize"
	"github.com/pdiddy/review-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a literature review from a directory of PDFs",
	Long: `Run analyzes every PDF in the input directory with an AI model,
synthesizes the per-paper summaries into a literature review, and writes
the review as literature_review_<timestamp>.md in the output directory.

Papers that fail extraction or analysis are logged and dropped; the run
only aborts when no paper can be processed at all. The API key is read
from OPENAI_API_KEY (environment or .env) or .secrets/openai-api-key.`,
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	workers, _ := cmd.Flags().GetInt("workers")
	model, _ := cmd.Flags().GetString("model")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	historyDB, _ := cmd.Flags().GetString("history-db")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logger := logging.New(logLevel, logFormat)

	apiKey, err := secrets.APIKey(loadedSecrets)
	if err != nil {
		return err
	}

	cfg := types.PipelineConfig{
		InputDir:  pdfDir,
		OutputDir: outputDir,
		Workers:   workers,
		Analysis: types.AnalysisConfig{
			AIConfig: types.AIConfig{
				Model:       model,
				APIKey:      apiKey,
				MaxAttempts: maxRetries,
			},
			TruncateChars: analyze.DefaultTruncateChars,
			MaxTokens:     analyze.DefaultMaxTokens,
		},
		Synthesis: types.SynthesisConfig{
			AIConfig: types.AIConfig{
				Model:       model,
				APIKey:      apiKey,
				MaxAttempts: maxRetries,
			},
			MaxTokens: synthesize.DefaultMaxTokens,
		},
	}

	deps := review.Deps{
		Backend: &llm.Client{APIKey: apiKey, Model: model},
		Logger:  logger,
	}

	if !noHistory {
		s, err := store.Open(historyDB)
		if err != nil {
			logger.Warn().Err(err).Str("path", historyDB).Msg("run history disabled")
		} else {
			defer s.Close()
			deps.Store = s
		}
	}

	result, err := review.Run(cmd.Context(), deps, cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Literature review written to %s (%d analyzed, %d failed)\n",
		result.OutputPath, result.Summary.Analyzed, result.Summary.Failed)
	return nil
}

func init() {
	runCmd.Flags().String("pdf-dir", "PDF", "directory containing input PDF files")
	runCmd.Flags().String("output-dir", ".", "directory for the review and summary exports")
	runCmd.Flags().Int("workers", review.DefaultWorkers, "number of concurrent paper analyses")
	runCmd.Flags().String("model", "gpt-4o-mini", "AI model identifier")
	runCmd.Flags().Int("max-retries", 3, "total attempts per AI request")
	runCmd.Flags().String("history-db", "review-history.db", "path to the run-history database")
	runCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")

	rootCmd.AddCommand(runCmd)
}
