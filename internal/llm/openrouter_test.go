package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionBody(content string) string {
	return `{
		"id": "gen-1",
		"model": "google/gemini-2.0-flash-exp:free",
		"choices": [{"message": {"role": "assistant", "content": "` + content + `"}}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 7}
	}`
}

func TestNewOpenRouterClientRequiresKey(t *testing.T) {
	if _, err := NewOpenRouterClient("", Options{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestCompleteSendsIdentificationHeaders(t *testing.T) {
	var gotReferer, gotTitle, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("hello")))
	}))
	defer server.Close()

	client, err := NewOpenRouterClient("test-key", Options{
		BaseURL: server.URL,
		Referer: "https://travelplanner.app",
		Title:   "TravelPlanner",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.Complete(context.Background(), &CompletionRequest{
		Model:    "google/gemini-2.0-flash-exp:free",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if resp.Content != "hello" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.TokensIn != 12 || resp.TokensOut != 7 {
		t.Errorf("unexpected usage: %d in, %d out", resp.TokensIn, resp.TokensOut)
	}
	if gotReferer != "https://travelplanner.app" {
		t.Errorf("missing HTTP-Referer, got %q", gotReferer)
	}
	if gotTitle != "TravelPlanner" {
		t.Errorf("missing X-Title, got %q", gotTitle)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
}

func TestCompleteMapsRateLimitToStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	client, err := NewOpenRouterClient("test-key", Options{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), &CompletionRequest{
		Model:    "google/gemini-2.0-flash-exp:free",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var st *StatusError
	if !errors.As(err, &st) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if st.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", st.StatusCode)
	}
}

func TestCompleteMapsServerErrorToStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom"}}`))
	}))
	defer server.Close()

	client, err := NewOpenRouterClient("test-key", Options{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), &CompletionRequest{
		Model:    "google/gemini-2.0-flash-exp:free",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})

	var st *StatusError
	if !errors.As(err, &st) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if st.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", st.StatusCode)
	}
}

func TestCompleteTransportErrorIsNotStatusError(t *testing.T) {
	client, err := NewOpenRouterClient("test-key", Options{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), &CompletionRequest{
		Model:    "google/gemini-2.0-flash-exp:free",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var st *StatusError
	if errors.As(err, &st) {
		t.Errorf("transport failure must not be a StatusError: %v", err)
	}
}
