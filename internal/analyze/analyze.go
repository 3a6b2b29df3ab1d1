// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze produces a structured summary of one paper's cleaned
// text by way of the chat-completion backend.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/pdiddy/review-engine/internal/llm"
	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	// DefaultTruncateChars is the number of leading characters of cleaned
	// text sent to the model. Text past this point is silently dropped,
	// including any late methodology or conclusion section.
	DefaultTruncateChars = 6000

	// DefaultMaxTokens is the response token budget for one analysis call.
	DefaultMaxTokens = 1000
)

const systemInstruction = "You are a helpful assistant that provides comprehensive academic summaries in JSON format."

// analysisPromptTmpl is the prompt sent to the model for each paper. The
// field list is given verbatim; the model must respond with a single JSON
// object matching it.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`Analyze the following academic paper and provide a detailed summary in JSON format:

Filename: {{.Filename}}
Text: {{.Text}}

Provide the summary in a structured JSON format with the following fields:
- title: string
- authors: array of strings
- year: integer
- research_question: string
- theoretical_framework: string
- methodology: string
- main_arguments: array of strings
- findings: string
- significance: string
- limitations: string
- future_research: string`))

// Analyze sends the cleaned text (truncated to cfg.TruncateChars) to the
// backend with the analysis prompt and parses the response into a
// PaperSummary. sourceLabel is the originating filename; it only helps the
// model attribute title and authors when the text lacks a clear header.
// Calls go through the shared retry policy; after exhausting attempts the
// last error propagates to the caller.
func Analyze(ctx context.Context, backend llm.Backend, text, sourceLabel string, cfg types.AnalysisConfig) (types.PaperSummary, error) {
	truncate := cfg.TruncateChars
	if truncate <= 0 {
		truncate = DefaultTruncateChars
	}
	if len(text) > truncate {
		text = text[:truncate]
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var buf bytes.Buffer
	err := analysisPromptTmpl.Execute(&buf, struct{ Filename, Text string }{
		Filename: sourceLabel,
		Text:     text,
	})
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("rendering analysis prompt: %w", err)
	}

	raw, err := llm.CompleteWithRetry(ctx, backend, llm.Request{
		System:    systemInstruction,
		User:      buf.String(),
		MaxTokens: maxTokens,
		JSONOnly:  true,
	}, cfg.MaxAttempts)
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("analyzing %s: %w", sourceLabel, err)
	}

	summary, err := parseSummary(raw)
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("analyzing %s: %w", sourceLabel, err)
	}
	return summary, nil
}

// fieldKind describes the expected JSON type of one schema field.
type fieldKind int

const (
	kindString fieldKind = iota
	kindStringArray
	kindInteger
)

// summarySchema lists every required response field and its type. A
// missing field or type mismatch fails the parse.
var summarySchema = []struct {
	name string
	kind fieldKind
}{
	{"title", kindString},
	{"authors", kindStringArray},
	{"year", kindInteger},
	{"research_question", kindString},
	{"theoretical_framework", kindString},
	{"methodology", kindString},
	{"main_arguments", kindStringArray},
	{"findings", kindString},
	{"significance", kindString},
	{"limitations", kindString},
	{"future_research", kindString},
}

// parseSummary decodes the model's JSON response and enforces the schema:
// every field present, every field the right type.
func parseSummary(raw string) (types.PaperSummary, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return types.PaperSummary{}, fmt.Errorf("parsing summary JSON: %w", err)
	}

	var errors []string
	for _, field := range summarySchema {
		value, ok := obj[field.name]
		if !ok {
			errors = append(errors, fmt.Sprintf("missing field %q", field.name))
			continue
		}
		if err := checkKind(value, field.kind); err != nil {
			errors = append(errors, fmt.Sprintf("field %q: %v", field.name, err))
		}
	}
	if len(errors) > 0 {
		return types.PaperSummary{}, fmt.Errorf("summary validation: %s", strings.Join(errors, "; "))
	}

	var summary types.PaperSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return types.PaperSummary{}, fmt.Errorf("decoding summary: %w", err)
	}
	return summary, nil
}

// checkKind verifies a decoded JSON value against the expected kind.
func checkKind(value any, kind fieldKind) error {
	switch kind {
	case kindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case kindStringArray:
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected array of strings, got %T", value)
		}
		for i, elem := range arr {
			if _, ok := elem.(string); !ok {
				return fmt.Errorf("element %d: expected string, got %T", i, elem)
			}
		}
	case kindInteger:
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("expected integer, got %T", value)
		}
		if n != math.Trunc(n) {
			return fmt.Errorf("expected integer, got %v", n)
		}
	}
	return nil
}
