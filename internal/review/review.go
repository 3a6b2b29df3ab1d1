// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review drives one literature-review run: discover PDFs, fan out
// extraction and analysis over a bounded worker pool, synthesize the
// collected summaries, and write the review document.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/review-engine/internal/analyze"
	"github.com/pdiddy/review-engine/internal/cite"
	"github.com/pdiddy/review-engine/internal/llm"
	"github.com/pdiddy/review-engine/internal/pdftext"
	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/internal/synthesize"
	"github.com/pdiddy/review-engine/pkg/types"
)

// DefaultWorkers is the size of the worker pool for the per-file
// extract-and-analyze stage.
const DefaultWorkers = 4

// Terminal failure states of a run. Neither writes an output file.
var (
	// ErrNoInput signals that the input directory held no PDF files.
	ErrNoInput = errors.New("no PDF files found in input directory")

	// ErrNoOutput signals that no paper survived extraction and analysis.
	ErrNoOutput = errors.New("no papers were successfully analyzed")
)

// Extractor produces cleaned text from one PDF file. The pipeline's
// default is pdftext.Extract; tests substitute a fake.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (string, error)

func (f ExtractorFunc) Extract(path string) (string, error) {
	return f(path)
}

// Deps carries the pipeline's collaborators. Backend is required.
// Extractor defaults to PDF text-layer extraction. Store is optional;
// when present the completed run is recorded in it. Logger defaults to a
// disabled logger.
type Deps struct {
	Backend   llm.Backend
	Extractor Extractor
	Store     *store.Store
	Logger    zerolog.Logger
}

// Summary holds counts from the fan-out stage of one run.
type Summary struct {
	Analyzed int
	Failed   int
}

// Total returns the number of PDF files processed.
func (s Summary) Total() int {
	return s.Analyzed + s.Failed
}

// Result describes a completed run.
type Result struct {
	// OutputPath is the written review document.
	OutputPath string

	// Summary counts the per-file outcomes.
	Summary Summary
}

// Run executes one review over cfg.InputDir and writes the document to
// cfg.OutputDir. Per-file failures are logged and dropped; the run aborts
// only when the input directory is missing, empty of PDFs (ErrNoInput),
// every file fails (ErrNoOutput), or synthesis itself fails. Progress
// lines for each file go to w.
func Run(ctx context.Context, deps Deps, cfg types.PipelineConfig, w io.Writer) (Result, error) {
	if deps.Extractor == nil {
		deps.Extractor = ExtractorFunc(pdftext.Extract)
	}
	log := deps.Logger
	startedAt := time.Now()

	if _, err := os.Stat(cfg.InputDir); err != nil {
		return Result{}, fmt.Errorf("input directory %s: %w", cfg.InputDir, err)
	}

	files, err := listPDFs(cfg.InputDir)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoInput, cfg.InputDir)
	}

	log.Info().Int("files", len(files)).Str("dir", cfg.InputDir).Msg("analyzing PDFs")

	summaries, summary := analyzeAll(ctx, deps, cfg, files, w)
	if len(summaries) == 0 {
		return Result{Summary: summary}, fmt.Errorf("%w: %d file(s) failed", ErrNoOutput, summary.Failed)
	}

	log.Info().Int("papers", len(summaries)).Msg("synthesizing literature review")

	reviewText, err := synthesize.Synthesize(ctx, deps.Backend, summaries, cfg.Synthesis)
	if err != nil {
		return Result{Summary: summary}, err
	}

	paperList := cite.PaperList(summaries)
	document := reviewText + "\n\n" + paperList

	// Timestamp taken at write time, not run start.
	outPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("literature_review_%s.md", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(outPath, []byte(document), 0o644); err != nil {
		return Result{Summary: summary}, fmt.Errorf("writing review document: %w", err)
	}

	if err := exportSummaries(cfg.OutputDir, summaries); err != nil {
		log.Warn().Err(err).Msg("summary export failed")
	}

	if deps.Store != nil {
		if err := recordRun(ctx, deps.Store, startedAt, outPath, summary, summaries); err != nil {
			log.Warn().Err(err).Msg("run history update failed")
		}
	}

	log.Info().Str("path", outPath).Msg("literature review completed")

	return Result{OutputPath: outPath, Summary: summary}, nil
}

// listPDFs enumerates *.pdf files (non-recursive) in dir, in directory order.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// analyzeAll fans the extract-and-analyze stage out over a bounded worker
// pool and collects successes in completion order. Failures are logged
// and counted, never fatal. The summaries slice is the only shared
// resource; appends happen under the mutex.
func analyzeAll(ctx context.Context, deps Deps, cfg types.PipelineConfig, files []string, w io.Writer) ([]types.PaperSummary, Summary) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu        sync.Mutex
		summaries []types.PaperSummary
		failed    int
	)

	var g errgroup.Group
	g.SetLimit(workers)

	for _, path := range files {
		g.Go(func() error {
			name := filepath.Base(path)

			// The progress writer is shared across workers; every write
			// happens under the mutex.
			mu.Lock()
			fmt.Fprintf(w, "processing %s\n", name)
			mu.Unlock()

			summary, err := processFile(ctx, deps, cfg.Analysis, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				deps.Logger.Error().Err(err).Str("file", name).Msg("file dropped")
				fmt.Fprintf(w, "failed  %s: %v\n", name, err)
				failed++
				return nil
			}
			fmt.Fprintf(w, "analyzed %s\n", name)
			summaries = append(summaries, summary)
			return nil
		})
	}
	// Tasks never return errors; failures are counted instead.
	_ = g.Wait()

	return summaries, Summary{Analyzed: len(summaries), Failed: failed}
}

// processFile runs extraction then analysis for one PDF. The two steps
// are sequential within a worker.
func processFile(ctx context.Context, deps Deps, cfg types.AnalysisConfig, path string) (types.PaperSummary, error) {
	text, err := deps.Extractor.Extract(path)
	if err != nil {
		return types.PaperSummary{}, err
	}
	return analyze.Analyze(ctx, deps.Backend, text, filepath.Base(path), cfg)
}

// exportSummaries writes each summary as YAML under outputDir/summaries/,
// named after the paper title slug.
func exportSummaries(outputDir string, summaries []types.PaperSummary) error {
	dir := filepath.Join(outputDir, "summaries")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating summaries directory: %w", err)
	}

	for i, summary := range summaries {
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshaling summary %q: %w", summary.Title, err)
		}
		name := fmt.Sprintf("%02d-%s.yaml", i+1, slug(summary.Title))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing summary %q: %w", summary.Title, err)
		}
	}
	return nil
}

// slug reduces a title to a filesystem-safe lowercase hyphenated form.
func slug(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "untitled"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// recordRun writes the completed run and its citations to the history store.
func recordRun(ctx context.Context, s *store.Store, startedAt time.Time, outPath string, summary Summary, summaries []types.PaperSummary) error {
	citations := make([]string, len(summaries))
	for i, ps := range summaries {
		citations[i] = cite.Citation(ps)
	}
	_, err := s.RecordRun(ctx, store.RunRecord{
		StartedAt:  startedAt,
		OutputPath: outPath,
		Analyzed:   summary.Analyzed,
		Failed:     summary.Failed,
	}, summaries, citations)
	return err
}
