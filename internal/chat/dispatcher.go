// Package chat implements the assistant dispatch pipeline: a prioritized
// model list with bounded rate-limit retry and per-model fallback.
package chat

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/llm"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

// DefaultModels is the priority-ordered candidate list. The first model that
// answers wins; later entries are only tried after the earlier ones fail.
var DefaultModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"meta-llama/llama-3.2-3b-instruct:free",
}

const (
	defaultMaxRetries  = 5
	defaultBackoffStep = 3 * time.Second
	defaultJitterMax   = time.Second
	defaultMaxTokens   = 150
	defaultTemperature = 0.7

	missingKeyMessage = "API Key is missing. Set OPENROUTER_API_KEY to enable the assistant."
	rateLimitMessage  = "The assistant is receiving too many requests right now. Please try again in a moment."
	unavailableMsg    = "The assistant is unavailable right now. Please try again later."
)

// Config tunes the dispatcher. Zero values fall back to defaults; tests set
// small backoff values so retry paths run fast.
type Config struct {
	Models      []string
	MaxRetries  int
	BackoffStep time.Duration
	JitterMax   time.Duration
	MaxTokens   int
	Temperature float64
}

// Dispatcher sends conversations to an LLM provider with model fallback.
// A nil client means no credential is configured; dispatch then reports the
// missing key without touching the network.
type Dispatcher struct {
	client llm.Client
	config Config
	logger *logger.Logger
}

// New creates a dispatcher. client may be nil when no API key is configured.
func New(client llm.Client, cfg Config, log *logger.Logger) *Dispatcher {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffStep == 0 {
		cfg.BackoffStep = defaultBackoffStep
	}
	if cfg.JitterMax == 0 {
		cfg.JitterMax = defaultJitterMax
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	return &Dispatcher{
		client: client,
		config: cfg,
		logger: log,
	}
}

// Dispatch sends the conversation to the first model that answers.
//
// Provider failures never surface as Go errors: the caller always receives a
// ChatResult holding either choices or a normalized error payload. The
// returned error is non-nil only for transport failures and context
// cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []model.ChatMessage) (*model.ChatResult, error) {
	if d.client == nil {
		return &model.ChatResult{
			Error: &model.ChatError{Message: missingKeyMessage},
		}, nil
	}

	start := time.Now()
	wire := toWire(messages)

	var lastStatus *llm.StatusError

	for _, candidate := range d.config.Models {
		retryCount := 0

		for {
			resp, err := d.client.Complete(ctx, &llm.CompletionRequest{
				Model:       candidate,
				Messages:    wire,
				MaxTokens:   d.config.MaxTokens,
				Temperature: d.config.Temperature,
			})
			if err == nil {
				metrics.ChatAttemptsTotal.WithLabelValues(candidate, "success").Inc()
				metrics.RecordChatDispatch("success", time.Since(start).Seconds())

				content := strings.TrimLeftFunc(resp.Content, isSpace)
				usedModel := resp.Model
				if usedModel == "" {
					usedModel = candidate
				}
				return &model.ChatResult{
					Model: usedModel,
					Choices: []model.ChatChoice{
						{Message: model.ChatMessage{Role: model.RoleAssistant, Content: content}},
					},
				}, nil
			}

			var st *llm.StatusError
			if !errors.As(err, &st) {
				// Transport failure, not a provider verdict.
				metrics.RecordChatDispatch("transport_error", time.Since(start).Seconds())
				return nil, err
			}
			lastStatus = st

			if st.StatusCode == 429 && retryCount < d.config.MaxRetries {
				delay := time.Duration(retryCount)*d.config.BackoffStep + d.jitter()
				d.logger.Warn("model rate limited, backing off",
					zap.String("model", candidate),
					zap.Int("retry", retryCount),
					zap.Duration("delay", delay))
				metrics.ChatRetriesTotal.WithLabelValues(candidate).Inc()

				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				retryCount++
				continue
			}

			d.logger.Warn("model failed, moving on",
				zap.String("model", candidate),
				zap.Int("status", st.StatusCode))
			metrics.ChatAttemptsTotal.WithLabelValues(candidate, "failed").Inc()
			break
		}
	}

	metrics.RecordChatDispatch("exhausted", time.Since(start).Seconds())

	if lastStatus != nil && lastStatus.StatusCode == 429 {
		return &model.ChatResult{
			Error: &model.ChatError{Message: rateLimitMessage, Code: 429},
		}, nil
	}
	if lastStatus != nil {
		return &model.ChatResult{
			Error: &model.ChatError{Message: lastStatus.Message, Code: lastStatus.StatusCode},
		}, nil
	}
	return &model.ChatResult{
		Error: &model.ChatError{Message: unavailableMsg},
	}, nil
}

func (d *Dispatcher) jitter() time.Duration {
	if d.config.JitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d.config.JitterMax)))
}

func toWire(messages []model.ChatMessage) []llm.ChatMessage {
	wire := make([]llm.ChatMessage, len(messages))
	for i, m := range messages {
		wire[i] = llm.ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return wire
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
