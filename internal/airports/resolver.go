// Package airports resolves city and airport names to IATA codes, using a
// static table first and a constrained LLM completion as last resort.
package airports

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/llm"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

const resolverInstruction = `You are a helper that returns ONLY the 3-letter IATA airport code for a given city or airport name. If unknown, return "---". Do not return any other text.`

// resolverModel is the model used for code lookups. Tiny completions, so a
// single free-tier model is enough; unlike the chat dispatcher there is no
// fallback list and no retry.
const resolverModel = "google/gemini-2.0-flash-exp:free"

var codePattern = regexp.MustCompile(`[A-Z]{3}`)

// Resolver maps place names to IATA codes.
type Resolver struct {
	client llm.Client
	logger *logger.Logger
}

// NewResolver creates a resolver. client may be nil; static lookups still
// work, LLM fallback is skipped.
func NewResolver(client llm.Client, log *logger.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: log,
	}
}

// Resolve returns the IATA code for a city or airport name, or "" when the
// name cannot be resolved. A provider 429 is treated as unresolved, never
// retried.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	query := strings.TrimSpace(name)
	if query == "" {
		return ""
	}

	if code, ok := iataByCity[query]; ok {
		metrics.AirportResolutionsTotal.WithLabelValues("static").Inc()
		return code
	}
	for city, code := range iataByCity {
		if strings.EqualFold(city, query) {
			metrics.AirportResolutionsTotal.WithLabelValues("static").Inc()
			return code
		}
	}

	if r.client == nil {
		metrics.AirportResolutionsTotal.WithLabelValues("miss").Inc()
		return ""
	}

	r.logger.Debug("asking LLM for IATA code", zap.String("query", query))

	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model: resolverModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: resolverInstruction},
			{Role: "user", Content: fmt.Sprintf("What is the IATA code for %s?", query)},
		},
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		var st *llm.StatusError
		if errors.As(err, &st) && st.StatusCode == 429 {
			r.logger.Warn("LLM rate limited, skipping IATA lookup", zap.String("query", query))
		} else {
			r.logger.Error("IATA lookup failed", zap.String("query", query), zap.Error(err))
		}
		metrics.AirportResolutionsTotal.WithLabelValues("miss").Inc()
		return ""
	}

	code := codePattern.FindString(resp.Content)
	if code == "" {
		metrics.AirportResolutionsTotal.WithLabelValues("miss").Inc()
		return ""
	}

	metrics.AirportResolutionsTotal.WithLabelValues("llm").Inc()
	return code
}
