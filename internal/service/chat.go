package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/chat"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

const (
	maxMessageLength  = 4000
	historyWindowSize = 50
	maxHistoryLimit   = 200
)

var (
	// ErrContentRequired is returned when a chat message has no content.
	ErrContentRequired = errors.New("message content is required")

	// ErrContentTooLong is returned when a chat message exceeds the limit.
	ErrContentTooLong = fmt.Errorf("message content exceeds %d characters", maxMessageLength)
)

// History is the chat history store.
type History interface {
	PublishMessage(ctx context.Context, msg *model.HistoryMessage) (uint64, error)
	GetMessages(ctx context.Context, userID, tripID string, afterSequence uint64, limit int) ([]model.HistoryMessage, uint64, bool, error)
}

// ChatService runs trip-scoped conversations: it persists both sides of the
// exchange and feeds the trip context plus recent history to the dispatcher.
type ChatService struct {
	dispatcher *chat.Dispatcher
	history    History
	trips      *TripService
	logger     *logger.Logger
}

// NewChatService creates a chat service.
func NewChatService(dispatcher *chat.Dispatcher, history History, trips *TripService, log *logger.Logger) *ChatService {
	return &ChatService{
		dispatcher: dispatcher,
		history:    history,
		trips:      trips,
		logger:     log,
	}
}

// SendTripMessage persists the user message, dispatches the conversation with
// trip context, and persists the assistant reply when one arrives.
//
// The user message is stored before dispatch, so a failed completion still
// leaves the question in the history.
func (s *ChatService) SendTripMessage(ctx context.Context, userID, userName, userEmail, tripID, content string) (*model.SendChatMessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if len(content) > maxMessageLength {
		return nil, ErrContentTooLong
	}

	trip, err := s.trips.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	prior, _, _, err := s.history.GetMessages(ctx, userID, tripID, 0, historyWindowSize)
	if err != nil {
		s.logger.Warn("failed to load chat history, continuing without it",
			zap.String("trip_id", tripID),
			zap.Error(err))
		prior = nil
	}

	userMsg := &model.HistoryMessage{
		ID:        uuid.New().String(),
		TripID:    tripID,
		UserID:    userID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	seq, err := s.history.PublishMessage(ctx, userMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	userMsg.Sequence = seq
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	messages := buildConversation(userName, userEmail, trip, prior, content)

	start := time.Now()
	result, err := s.dispatcher.Dispatch(ctx, messages)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start).Milliseconds()

	resp := &model.SendChatMessageResponse{
		UserMessage: userMsg,
		Result:      result,
	}

	if result.OK() {
		assistantMsg := &model.HistoryMessage{
			ID:        uuid.New().String(),
			TripID:    tripID,
			UserID:    userID,
			Role:      model.RoleAssistant,
			Content:   result.Choices[0].Message.Content,
			Model:     &result.Model,
			LatencyMs: &latency,
			CreatedAt: time.Now().UTC(),
		}
		seq, err := s.history.PublishMessage(ctx, assistantMsg)
		if err != nil {
			// The reply still reaches the caller; only history is lossy.
			s.logger.Error("failed to persist assistant message",
				zap.String("trip_id", tripID),
				zap.Error(err))
		} else {
			assistantMsg.Sequence = seq
			resp.AssistantMessage = assistantMsg
			metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
		}
	}

	return resp, nil
}

// History returns the trip's chat messages after the given sequence.
func (s *ChatService) History(ctx context.Context, userID, tripID string, afterSequence uint64, limit int) (*model.ListChatMessagesResponse, error) {
	if _, err := s.trips.Get(ctx, userID, tripID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = historyWindowSize
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, lastSeq, hasMore, err := s.history.GetMessages(ctx, userID, tripID, afterSequence, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if messages == nil {
		messages = []model.HistoryMessage{}
	}

	return &model.ListChatMessagesResponse{
		Messages:     messages,
		HasMore:      hasMore,
		LastSequence: lastSeq,
	}, nil
}

// buildConversation assembles the dispatch payload: system prompt with trip
// context, recent history, then the new user message.
func buildConversation(userName, userEmail string, trip *model.Trip, prior []model.HistoryMessage, content string) []model.ChatMessage {
	messages := make([]model.ChatMessage, 0, len(prior)+2)
	messages = append(messages, model.ChatMessage{
		Role:    model.RoleSystem,
		Content: chat.TripSystemPrompt(userName, userEmail, trip),
	})
	for _, m := range prior {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			continue
		}
		messages = append(messages, model.ChatMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, model.ChatMessage{
		Role:    model.RoleUser,
		Content: content,
	})
	return messages
}
