// Package service implements business logic over the persistence layer.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

var (
	// ErrTripNotFound is returned when a trip does not exist or belongs to
	// another user.
	ErrTripNotFound = errors.New("trip not found")

	// ErrNameRequired is returned when a trip is created without a name.
	ErrNameRequired = errors.New("trip name is required")
)

// KV is the subset of the JetStream key-value API the trip store needs.
type KV interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
	ListKeys(ctx context.Context, opts ...jetstream.WatchOpt) (jetstream.KeyLister, error)
}

// TripService stores trip documents in a KV bucket keyed by user and trip id.
type TripService struct {
	kv     KV
	logger *logger.Logger
}

// NewTripService creates a trip service.
func NewTripService(kv KV, log *logger.Logger) *TripService {
	return &TripService{
		kv:     kv,
		logger: log,
	}
}

func tripKey(userID, tripID string) string {
	return fmt.Sprintf("user.%s.trip.%s", userID, tripID)
}

// Create stores a new trip for the user.
func (s *TripService) Create(ctx context.Context, userID string, req *model.CreateTripRequest) (*model.Trip, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	now := time.Now().UTC()
	trip := &model.Trip{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		PlacesToVisit: req.PlacesToVisit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.put(ctx, trip); err != nil {
		return nil, err
	}

	metrics.TripsTotal.Inc()
	s.logger.Info("trip created",
		zap.String("trip_id", trip.ID),
		zap.String("user_id", userID))

	return trip, nil
}

// Get loads a trip owned by the user.
func (s *TripService) Get(ctx context.Context, userID, tripID string) (*model.Trip, error) {
	entry, err := s.kv.Get(ctx, tripKey(userID, tripID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}

	var trip model.Trip
	if err := json.Unmarshal(entry.Value(), &trip); err != nil {
		return nil, fmt.Errorf("failed to decode trip: %w", err)
	}
	return &trip, nil
}

// List returns all trips owned by the user, newest first.
func (s *TripService) List(ctx context.Context, userID string) ([]model.Trip, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	prefix := fmt.Sprintf("user.%s.trip.", userID)
	trips := make([]model.Trip, 0)
	for key := range lister.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var trip model.Trip
		if err := json.Unmarshal(entry.Value(), &trip); err != nil {
			continue
		}
		trips = append(trips, trip)
	}

	// Newest first.
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})

	return trips, nil
}

// Update applies non-zero fields of the request to the trip.
func (s *TripService) Update(ctx context.Context, userID, tripID string, req *model.UpdateTripRequest) (*model.Trip, error) {
	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		trip.Name = strings.TrimSpace(req.Name)
	}
	if req.StartDate != "" {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		trip.EndDate = req.EndDate
	}
	if req.Budget != 0 {
		trip.Budget = req.Budget
	}
	if req.PlacesToVisit != nil {
		trip.PlacesToVisit = req.PlacesToVisit
	}
	if req.Itinerary != nil {
		trip.Itinerary = req.Itinerary
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := s.put(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Delete removes a trip.
func (s *TripService) Delete(ctx context.Context, userID, tripID string) error {
	// Verify ownership before deleting.
	if _, err := s.Get(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, tripKey(userID, tripID)); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// AddActivity appends an activity to the itinerary day for the given date,
// creating the day if needed.
func (s *TripService) AddActivity(ctx context.Context, userID, tripID string, req *model.AddActivityRequest) (*model.Trip, error) {
	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	activity := req.Activity
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}

	placed := false
	for i := range trip.Itinerary {
		if trip.Itinerary[i].Date == req.Date {
			trip.Itinerary[i].Activities = append(trip.Itinerary[i].Activities, activity)
			placed = true
			break
		}
	}
	if !placed {
		trip.Itinerary = append(trip.Itinerary, model.ItineraryDay{
			Date:       req.Date,
			Activities: []model.Activity{activity},
		})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := s.put(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// AddExpense appends an expense to the trip.
func (s *TripService) AddExpense(ctx context.Context, userID, tripID string, req *model.AddExpenseRequest) (*model.Trip, error) {
	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	expense := req.Expense
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	trip.Expenses = append(trip.Expenses, expense)
	trip.UpdatedAt = time.Now().UTC()

	if err := s.put(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) put(ctx context.Context, trip *model.Trip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("failed to encode trip: %w", err)
	}
	if _, err := s.kv.Put(ctx, tripKey(trip.UserID, trip.ID), data); err != nil {
		return fmt.Errorf("failed to store trip: %w", err)
	}
	return nil
}
