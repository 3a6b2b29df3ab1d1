// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the chat-completion backend used by the analysis
// and synthesis stages, plus the shared retry policy for calls to it.
package llm

import "context"

// Request describes one chat-completion call: a system instruction, a user
// message, a response token budget, and whether the response must be a
// single JSON object.
type Request struct {
	System    string
	User      string
	MaxTokens int
	JSONOnly  bool
}

// Backend abstracts the chat-completion API so tests can supply a mock.
// Each call is one outbound request; implementations hold no shared state
// across calls.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
