package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/middleware"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/internal/service"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

// TripsHandler handles trip CRUD endpoints.
type TripsHandler struct {
	trips  *service.TripService
	logger *logger.Logger
}

// NewTripsHandler creates a new trips handler.
func NewTripsHandler(trips *service.TripService, log *logger.Logger) *TripsHandler {
	return &TripsHandler{
		trips:  trips,
		logger: log,
	}
}

// Create handles POST /api/v1/trips.
func (h *TripsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTitle(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.trips.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create trip", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create trip")
		return
	}

	writeJSON(w, http.StatusCreated, trip)
}

// List handles GET /api/v1/trips.
func (h *TripsHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list trips", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list trips")
		return
	}

	writeJSON(w, http.StatusOK, model.ListTripsResponse{
		Trips: trips,
		Total: len(trips),
	})
}

// Get handles GET /api/v1/trips/{tripID}.
func (h *TripsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.trips.Get(r.Context(), middleware.GetUserID(r.Context()), tripID)
	if err != nil {
		h.respondTripError(w, tripID, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// Update handles PATCH /api/v1/trips/{tripID}.
func (h *TripsHandler) Update(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTitle(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.trips.Update(r.Context(), middleware.GetUserID(r.Context()), tripID, &req)
	if err != nil {
		h.respondTripError(w, tripID, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// Delete handles DELETE /api/v1/trips/{tripID}.
func (h *TripsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.trips.Delete(r.Context(), middleware.GetUserID(r.Context()), tripID); err != nil {
		h.respondTripError(w, tripID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddActivity handles POST /api/v1/trips/{tripID}/activities.
func (h *TripsHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateTitle(req.Activity.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.trips.AddActivity(r.Context(), middleware.GetUserID(r.Context()), tripID, &req)
	if err != nil {
		h.respondTripError(w, tripID, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// AddExpense handles POST /api/v1/trips/{tripID}/expenses.
func (h *TripsHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if err := middleware.ValidateTripID(tripID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTitle(req.Expense.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.trips.AddExpense(r.Context(), middleware.GetUserID(r.Context()), tripID, &req)
	if err != nil {
		h.respondTripError(w, tripID, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

func (h *TripsHandler) respondTripError(w http.ResponseWriter, tripID string, err error) {
	if errors.Is(err, service.ErrTripNotFound) {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}
	h.logger.Error("trip operation failed",
		zap.String("trip_id", tripID),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "trip operation failed")
}
