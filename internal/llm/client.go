// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
	"fmt"
)

// ChatMessage represents a chat message for the LLM. Role and content only;
// local ids and timestamps never go over the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content   string
	Model     string
	TokensIn  int
	TokensOut int
	LatencyMs int64
}

// StatusError is a provider error that carries the HTTP status code. The
// dispatcher uses the code to decide between retry, fallback, and giving up.
// Transport failures are returned as plain errors, never as StatusError.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}
