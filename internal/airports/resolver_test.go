package airports

import (
	"context"
	"errors"
	"testing"

	"github.com/travelplanner/travel-platform/internal/llm"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

type stubLLM struct {
	content string
	err     error
	called  bool
}

func (s *stubLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubLLM) Name() string { return "stub" }

func TestResolveStaticTable(t *testing.T) {
	stub := &stubLLM{content: "XXX"}
	r := NewResolver(stub, logger.NewNop())

	if code := r.Resolve(context.Background(), "Mumbai"); code != "BOM" {
		t.Errorf("expected BOM, got %q", code)
	}
	if stub.called {
		t.Error("static lookup must not reach the LLM")
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := NewResolver(nil, logger.NewNop())

	if code := r.Resolve(context.Background(), "mumbai"); code != "BOM" {
		t.Errorf("expected BOM, got %q", code)
	}
	if code := r.Resolve(context.Background(), "  Delhi  "); code != "DEL" {
		t.Errorf("expected DEL, got %q", code)
	}
}

func TestResolveLLMFallback(t *testing.T) {
	stub := &stubLLM{content: "CDG\n"}
	r := NewResolver(stub, logger.NewNop())

	if code := r.Resolve(context.Background(), "Paris Charles de Gaulle"); code != "CDG" {
		t.Errorf("expected CDG, got %q", code)
	}
	if !stub.called {
		t.Error("expected LLM fallback for unknown name")
	}
}

func TestResolveLLMUnknownSentinel(t *testing.T) {
	stub := &stubLLM{content: "---"}
	r := NewResolver(stub, logger.NewNop())

	if code := r.Resolve(context.Background(), "Atlantis"); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}

func TestResolveRateLimitedNoRetry(t *testing.T) {
	stub := &stubLLM{err: &llm.StatusError{StatusCode: 429, Message: "rate limited"}}
	r := NewResolver(stub, logger.NewNop())

	if code := r.Resolve(context.Background(), "Somewhere Obscure"); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}

func TestResolveTransportError(t *testing.T) {
	stub := &stubLLM{err: errors.New("connection refused")}
	r := NewResolver(stub, logger.NewNop())

	if code := r.Resolve(context.Background(), "Somewhere Obscure"); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}

func TestResolveNilClient(t *testing.T) {
	r := NewResolver(nil, logger.NewNop())

	if code := r.Resolve(context.Background(), "Somewhere Obscure"); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
	if code := r.Resolve(context.Background(), ""); code != "" {
		t.Errorf("expected empty code for empty query, got %q", code)
	}
}
