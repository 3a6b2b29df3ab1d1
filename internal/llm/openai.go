// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openaiAPIURL is the chat-completions endpoint. Package-level var for
// test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// Client calls the OpenAI chat-completions API.
type Client struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat constrains the response shape ("json_object" for strict
// JSON output).
type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion choice in the response.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends one chat-completion request and returns the first
// choice's message content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	reqBody := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens: req.MaxTokens,
	}
	if req.JSONOnly {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}
