// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/review-engine/internal/llm"
	"github.com/pdiddy/review-engine/pkg/types"
)

func TestMain(m *testing.M) {
	// Tiny backoff so retry tests finish quickly.
	llm.RetryBaseDelay = time.Millisecond
	llm.RetryMaxDelay = 4 * time.Millisecond
	os.Exit(m.Run())
}

// recordingBackend captures the last request and returns a fixed response.
type recordingBackend struct {
	lastReq  llm.Request
	response string
	err      error
	calls    int
}

func (r *recordingBackend) Complete(_ context.Context, req llm.Request) (string, error) {
	r.calls++
	r.lastReq = req
	if r.err != nil {
		return "", r.err
	}
	return r.response, nil
}

const goodResponse = `{
	"title": "Attention Is All You Need",
	"authors": ["Ashish Vaswani", "Noam Shazeer"],
	"year": 2017,
	"research_question": "Can attention replace recurrence?",
	"theoretical_framework": "Sequence transduction",
	"methodology": "Model architecture experiments",
	"main_arguments": ["Self-attention suffices", "Recurrence is unnecessary"],
	"findings": "State of the art BLEU",
	"significance": "Foundation for later models",
	"limitations": "Quadratic attention cost",
	"future_research": "Apply to other modalities"
}`

func testConfig() types.AnalysisConfig {
	return types.AnalysisConfig{
		AIConfig: types.AIConfig{Model: "test-model", MaxAttempts: 3},
	}
}

func TestAnalyzeParsesSummary(t *testing.T) {
	backend := &recordingBackend{response: goodResponse}

	summary, err := Analyze(context.Background(), backend, "some paper text", "vaswani2017.pdf", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", summary.Title)
	}
	if len(summary.Authors) != 2 || summary.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors = %v", summary.Authors)
	}
	if summary.Year != 2017 {
		t.Errorf("year = %d, want 2017", summary.Year)
	}
	if len(summary.MainArguments) != 2 {
		t.Errorf("main_arguments = %v", summary.MainArguments)
	}
	if summary.FutureResearch != "Apply to other modalities" {
		t.Errorf("future_research = %q", summary.FutureResearch)
	}
}

func TestAnalyzePromptContents(t *testing.T) {
	backend := &recordingBackend{response: goodResponse}

	_, err := Analyze(context.Background(), backend, "the cleaned text", "smith2020.pdf", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !backend.lastReq.JSONOnly {
		t.Error("request should demand JSON-only output")
	}
	if backend.lastReq.MaxTokens != DefaultMaxTokens {
		t.Errorf("max tokens = %d, want %d", backend.lastReq.MaxTokens, DefaultMaxTokens)
	}
	if !strings.Contains(backend.lastReq.System, "academic summaries in JSON format") {
		t.Errorf("system instruction = %q", backend.lastReq.System)
	}

	prompt := backend.lastReq.User
	if !strings.Contains(prompt, "Filename: smith2020.pdf") {
		t.Error("prompt missing source label")
	}
	if !strings.Contains(prompt, "the cleaned text") {
		t.Error("prompt missing paper text")
	}
	for _, field := range summarySchema {
		if !strings.Contains(prompt, field.name) {
			t.Errorf("prompt missing field %q", field.name)
		}
	}
}

func TestAnalyzeTruncatesText(t *testing.T) {
	backend := &recordingBackend{response: goodResponse}
	text := strings.Repeat("a", 5000) + strings.Repeat("b", 5000)

	_, err := Analyze(context.Background(), backend, text, "long.pdf", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := backend.lastReq.User
	if !strings.Contains(prompt, strings.Repeat("a", 5000)) {
		t.Error("prompt missing leading text")
	}
	if strings.Contains(prompt, strings.Repeat("b", 4001)) {
		t.Error("prompt contains text past the truncation point")
	}
	if !strings.Contains(prompt, strings.Repeat("b", 1000)) {
		t.Error("prompt truncated too aggressively")
	}
}

func TestAnalyzeRetriesTransientFailure(t *testing.T) {
	backend := &flakyBackend{failures: 2, response: goodResponse}

	summary, err := Analyze(context.Background(), backend, "text", "x.pdf", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Year != 2017 {
		t.Errorf("year = %d", summary.Year)
	}
	if backend.calls != 3 {
		t.Errorf("calls = %d, want 3", backend.calls)
	}
}

func TestAnalyzeFailsAfterRetries(t *testing.T) {
	backend := &recordingBackend{err: fmt.Errorf("boom")}

	_, err := Analyze(context.Background(), backend, "text", "x.pdf", testConfig())
	if err == nil {
		t.Fatal("expected error")
	}
	if backend.calls != 3 {
		t.Errorf("calls = %d, want 3", backend.calls)
	}
	if !strings.Contains(err.Error(), "x.pdf") {
		t.Errorf("error = %q, want source label", err)
	}
}

// flakyBackend fails the first N calls, then succeeds.
type flakyBackend struct {
	failures int
	calls    int
	response string
}

func (f *flakyBackend) Complete(_ context.Context, _ llm.Request) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", fmt.Errorf("transient error (call %d)", f.calls)
	}
	return f.response, nil
}

func TestParseSummaryErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name:    "not JSON",
			raw:     "sorry, I cannot do that",
			wantErr: "parsing summary JSON",
		},
		{
			name:    "missing year",
			raw:     strings.Replace(goodResponse, `"year": 2017,`, "", 1),
			wantErr: `missing field "year"`,
		},
		{
			name:    "year as string",
			raw:     strings.Replace(goodResponse, `"year": 2017`, `"year": "2017"`, 1),
			wantErr: `field "year"`,
		},
		{
			name:    "fractional year",
			raw:     strings.Replace(goodResponse, `"year": 2017`, `"year": 2017.5`, 1),
			wantErr: `field "year"`,
		},
		{
			name:    "authors not an array",
			raw:     strings.Replace(goodResponse, `["Ashish Vaswani", "Noam Shazeer"]`, `"Vaswani"`, 1),
			wantErr: `field "authors"`,
		},
		{
			name:    "author element not a string",
			raw:     strings.Replace(goodResponse, `["Ashish Vaswani", "Noam Shazeer"]`, `[1, 2]`, 1),
			wantErr: `field "authors"`,
		},
		{
			name:    "missing findings",
			raw:     strings.Replace(goodResponse, `"findings": "State of the art BLEU",`, "", 1),
			wantErr: `missing field "findings"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSummary(tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseSummaryEmptyAuthorsAllowed(t *testing.T) {
	raw := strings.Replace(goodResponse, `["Ashish Vaswani", "Noam Shazeer"]`, `[]`, 1)
	summary, err := parseSummary(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Authors) != 0 {
		t.Errorf("authors = %v, want empty", summary.Authors)
	}
}
