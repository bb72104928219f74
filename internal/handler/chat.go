// Package handler implements the HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/chat"
	"github.com/travelplanner/travel-platform/internal/middleware"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/internal/service"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

// ChatHandler handles assistant chat endpoints.
type ChatHandler struct {
	dispatcher *chat.Dispatcher
	chats      *service.ChatService
	logger     *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(dispatcher *chat.Dispatcher, chats *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		dispatcher: dispatcher,
		chats:      chats,
		logger:     log,
	}
}

// Chat handles POST /api/v1/chat. Stateless: the caller supplies the full
// conversation and nothing is persisted.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages cannot be empty")
		return
	}
	for _, m := range req.Messages {
		if err := middleware.ValidateMessageContent(m.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req.Messages)
	if err != nil {
		h.logger.Error("chat dispatch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "assistant is unreachable")
		return
	}

	// Provider failures ride in the result payload with a 200; clients
	// render them inline.
	writeJSON(w, http.StatusOK, result)
}

// SendTripMessage handles POST /api/v1/trips/{tripID}/chat.
func (h *ChatHandler) SendTripMessage(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	resp, err := h.chats.SendTripMessage(ctx,
		middleware.GetUserID(ctx),
		middleware.GetUserName(ctx),
		middleware.GetUserEmail(ctx),
		tripID,
		req.Content,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			writeError(w, http.StatusNotFound, "trip not found")
		case errors.Is(err, service.ErrContentRequired), errors.Is(err, service.ErrContentTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("trip chat failed",
				zap.String("trip_id", tripID),
				zap.Error(err))
			writeError(w, http.StatusBadGateway, "assistant is unreachable")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/trips/{tripID}/chat.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var afterSeq uint64
	if v := r.URL.Query().Get("after_seq"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid after_seq")
			return
		}
		afterSeq = parsed
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	ctx := r.Context()
	resp, err := h.chats.History(ctx, middleware.GetUserID(ctx), tripID, afterSeq, limit)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			writeError(w, http.StatusNotFound, "trip not found")
			return
		}
		h.logger.Error("failed to load chat history",
			zap.String("trip_id", tripID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
