package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/cache"
	"github.com/travelplanner/travel-platform/internal/flights"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

// FlightsHandler handles flight search.
type FlightsHandler struct {
	aggregator *flights.Aggregator
	cache      cache.Cache
	logger     *logger.Logger
}

// NewFlightsHandler creates a new flights handler.
func NewFlightsHandler(aggregator *flights.Aggregator, c cache.Cache, log *logger.Logger) *FlightsHandler {
	return &FlightsHandler{
		aggregator: aggregator,
		cache:      c,
		logger:     log,
	}
}

// Search handles POST /api/v1/flights/search.
func (h *FlightsHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.FlightSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp := model.FlightSearchResponse{
		From:        req.From,
		To:          req.To,
		Date:        req.Date,
		ReturnDate:  req.ReturnDate,
		FlightClass: req.FlightClass,
	}

	if offers, ok := h.cache.Get(r.Context(), req); ok {
		resp.Flights = offers
		resp.TotalResults = len(offers)
		resp.CacheHit = true
		resp.SearchTimeMs = time.Since(start).Milliseconds()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	offers, synthetic := h.aggregator.Search(r.Context(), req)

	// Generated offers are not worth caching; only live results are reused.
	if !synthetic {
		if err := h.cache.Set(r.Context(), req, offers); err != nil {
			h.logger.Warn("failed to cache flight results", zap.Error(err))
		}
	}

	resp.Flights = offers
	resp.TotalResults = len(offers)
	resp.Synthetic = synthetic
	resp.SearchTimeMs = time.Since(start).Milliseconds()

	writeJSON(w, http.StatusOK, resp)
}
