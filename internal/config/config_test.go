package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("REDIS_TTL", "")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("unexpected NATS URL %q", cfg.NATSURL)
	}
	if cfg.OpenRouterBaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("unexpected OpenRouter base URL %q", cfg.OpenRouterBaseURL)
	}
	if cfg.RedisTTL != 5*time.Minute {
		t.Errorf("unexpected Redis TTL %v", cfg.RedisTTL)
	}
	if !cfg.CacheEnabled {
		t.Error("cache should default to enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("RATE_LIMIT_REQUESTS", "120")
	t.Setenv("REDIS_TTL", "10m")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.OpenRouterAPIKey != "sk-test" {
		t.Errorf("expected API key override, got %q", cfg.OpenRouterAPIKey)
	}
	if cfg.CacheEnabled {
		t.Error("expected cache disabled")
	}
	if cfg.RateLimitRequests != 120 {
		t.Errorf("expected 120 requests, got %d", cfg.RateLimitRequests)
	}
	if cfg.RedisTTL != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %v", cfg.RedisTTL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "many")
	t.Setenv("REDIS_TTL", "whenever")

	cfg := Load()

	if cfg.RateLimitRequests != 60 {
		t.Errorf("malformed int should fall back to default, got %d", cfg.RateLimitRequests)
	}
	if cfg.RedisTTL != 5*time.Minute {
		t.Errorf("malformed duration should fall back to default, got %v", cfg.RedisTTL)
	}
}
