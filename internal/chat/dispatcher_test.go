package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/travelplanner/travel-platform/internal/llm"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

// scriptedClient replays a per-call script and records which models were
// asked, in order.
type scriptedClient struct {
	mu     sync.Mutex
	calls  []string
	script func(call int, model string) (*llm.CompletionResponse, error)
}

func (c *scriptedClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req.Model)
	call := len(c.calls)
	c.mu.Unlock()
	return c.script(call, req.Model)
}

func (c *scriptedClient) Name() string { return "scripted" }

func fastConfig() Config {
	return Config{
		Models:      []string{"model-a", "model-b"},
		MaxRetries:  2,
		BackoffStep: time.Millisecond,
		JitterMax:   time.Nanosecond,
	}
}

func TestDispatchFirstModelSuccess(t *testing.T) {
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "  \n hello there", Model: model}, nil
		},
	}
	d := New(client, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected success, got error payload: %+v", result.Error)
	}
	if got := result.Choices[0].Message.Content; got != "hello there" {
		t.Errorf("expected leading whitespace stripped, got %q", got)
	}
	if result.Model != "model-a" {
		t.Errorf("expected model-a, got %q", result.Model)
	}
	if len(client.calls) != 1 {
		t.Errorf("expected 1 call, got %d: %v", len(client.calls), client.calls)
	}
}

func TestDispatchMissingKey(t *testing.T) {
	d := New(nil, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result.Error == nil {
		t.Fatal("expected an error payload")
	}
	if result.Error.Message != missingKeyMessage {
		t.Errorf("unexpected message: %q", result.Error.Message)
	}
}

func TestDispatchAllRateLimited(t *testing.T) {
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			return nil, &llm.StatusError{StatusCode: 429, Message: "rate limited"}
		},
	}
	d := New(client, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result.Error == nil {
		t.Fatal("expected an error payload")
	}
	if result.Error.Code != 429 {
		t.Errorf("expected code 429, got %d", result.Error.Code)
	}
	if result.Error.Message != rateLimitMessage {
		t.Errorf("unexpected message: %q", result.Error.Message)
	}
	// Each model gets the initial attempt plus MaxRetries retries.
	if want := 2 * 3; len(client.calls) != want {
		t.Errorf("expected %d calls, got %d: %v", want, len(client.calls), client.calls)
	}
}

func TestDispatchFallsBackWithoutRetryOnServerError(t *testing.T) {
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			if model == "model-a" {
				return nil, &llm.StatusError{StatusCode: 500, Message: "boom"}
			}
			return &llm.CompletionResponse{Content: "answer", Model: model}, nil
		},
	}
	d := New(client, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if result.Model != "model-b" {
		t.Errorf("expected model-b, got %q", result.Model)
	}
	// No retries on a non-429 failure: one call to each model.
	if len(client.calls) != 2 {
		t.Errorf("expected 2 calls, got %d: %v", len(client.calls), client.calls)
	}
}

func TestDispatchExhaustedReportsLastError(t *testing.T) {
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			return nil, &llm.StatusError{StatusCode: 503, Message: "overloaded"}
		},
	}
	d := New(client, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result.Error == nil {
		t.Fatal("expected an error payload")
	}
	if result.Error.Code != 503 || result.Error.Message != "overloaded" {
		t.Errorf("expected last provider error, got %+v", result.Error)
	}
}

func TestDispatchTransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("connection refused")
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			return nil, transportErr
		},
	}
	d := New(client, fastConfig(), logger.NewNop())

	result, err := d.Dispatch(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if len(client.calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(client.calls))
	}
}

func TestDispatchContextCancelledDuringBackoff(t *testing.T) {
	client := &scriptedClient{
		script: func(call int, model string) (*llm.CompletionResponse, error) {
			return nil, &llm.StatusError{StatusCode: 429, Message: "rate limited"}
		},
	}
	cfg := fastConfig()
	cfg.BackoffStep = time.Hour
	d := New(client, cfg, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	// First attempt is immediate (retryCount 0 means zero backoff), the
	// second backs off for an hour and must be interrupted.
	_, err := d.Dispatch(ctx, []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
