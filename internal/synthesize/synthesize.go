// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize turns the collected paper summaries into literature
// review prose by way of the chat-completion backend.
package synthesize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pdiddy/review-engine/internal/llm"
	"github.com/pdiddy/review-engine/pkg/types"
)

// DefaultMaxTokens is the response token budget for the synthesis call.
const DefaultMaxTokens = 3000

const systemInstruction = "You are a helpful assistant that creates comprehensive, well-structured literature reviews."

// synthesisPromptTmpl embeds every summary in full. Input size scales
// linearly with paper count and may exceed the model's context limit for
// large batches; there is no chunking.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`Create a comprehensive literature review based on the following paper summaries.
Focus on synthesizing information, comparing and contrasting key arguments, methodologies, and significance of findings.
Highlight any contradictions, agreements, or trends between authors.
Discuss the evolution of ideas and methodologies in the field.
Identify gaps in the current research and suggest future research directions.
Keep the review under 2500 words.

Summaries: {{.Summaries}}

Structure the review as follows:
1. Introduction
2. Theoretical Frameworks
3. Methodological Approaches
4. Synthesis of Main Arguments and Findings
5. Significance and Implications
6. Gaps and Future Research Directions
7. Conclusion`))

// Synthesize sends all summaries to the backend with the synthesis prompt
// and returns the model's prose unmodified. Calls go through the shared
// retry policy. The caller must not pass an empty collection.
func Synthesize(ctx context.Context, backend llm.Backend, summaries []types.PaperSummary, cfg types.SynthesisConfig) (string, error) {
	if len(summaries) == 0 {
		return "", fmt.Errorf("no summaries to synthesize")
	}

	serialized, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("serializing summaries: %w", err)
	}

	var buf bytes.Buffer
	err = synthesisPromptTmpl.Execute(&buf, struct{ Summaries string }{Summaries: string(serialized)})
	if err != nil {
		return "", fmt.Errorf("rendering synthesis prompt: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	review, err := llm.CompleteWithRetry(ctx, backend, llm.Request{
		System:    systemInstruction,
		User:      buf.String(),
		MaxTokens: maxTokens,
	}, cfg.MaxAttempts)
	if err != nil {
		return "", fmt.Errorf("synthesizing review: %w", err)
	}

	return review, nil
}
