// Package model defines data structures for the travel platform.
package model

import (
	"time"
)

// Role represents the role of a chat message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single message in a conversation sent to the dispatcher.
// Only role and content go over the wire to the LLM provider.
type ChatMessage struct {
	ID        string `json:"id,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ChatChoice is one completion choice returned by the provider.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatError is a normalized provider error payload.
type ChatError struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// ChatResult is the dispatcher outcome: exactly one of Choices or Error is set.
type ChatResult struct {
	Choices []ChatChoice `json:"choices,omitempty"`
	Model   string       `json:"model,omitempty"`
	Error   *ChatError   `json:"error,omitempty"`
}

// OK reports whether the result carries a successful completion.
func (r *ChatResult) OK() bool {
	return r.Error == nil && len(r.Choices) > 0
}

// ChatRequest is the body for the stateless chat endpoint.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// HistoryMessage is a chat message persisted to the trip chat stream.
type HistoryMessage struct {
	ID     string `json:"id"`
	TripID string `json:"trip_id"`
	UserID string `json:"user_id"`

	Role    Role   `json:"role"`
	Content string `json:"content"`

	// LLM metadata, set on assistant messages only.
	Model     *string `json:"model,omitempty"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Stream sequence, populated on read.
	Sequence uint64 `json:"sequence,omitempty"`
}

// SendChatMessageRequest is the body for trip-scoped chat.
type SendChatMessageRequest struct {
	Content string `json:"content"`
}

// SendChatMessageResponse carries the persisted user message and the reply.
type SendChatMessageResponse struct {
	UserMessage      *HistoryMessage `json:"user_message"`
	AssistantMessage *HistoryMessage `json:"assistant_message,omitempty"`
	Result           *ChatResult     `json:"result"`
}

// ListChatMessagesResponse is the response for listing trip chat history.
type ListChatMessagesResponse struct {
	Messages     []HistoryMessage `json:"messages"`
	HasMore      bool             `json:"has_more"`
	LastSequence uint64           `json:"last_sequence"`
}
