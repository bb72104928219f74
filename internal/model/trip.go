package model

import (
	"time"
)

// Place is a point of interest attached to a trip.
type Place struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Activity is a single itinerary entry.
type Activity struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Time  string  `json:"time,omitempty"`
	Cost  float64 `json:"cost,omitempty"`
	Notes string  `json:"notes,omitempty"`
}

// ItineraryDay groups activities under a calendar date.
type ItineraryDay struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities,omitempty"`
}

// Expense is a recorded trip expense.
type Expense struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category,omitempty"`
	Date     string  `json:"date,omitempty"`
}

// Trip is the stored trip document.
type Trip struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	StartDate     string         `json:"start_date,omitempty"`
	EndDate       string         `json:"end_date,omitempty"`
	Budget        float64        `json:"budget,omitempty"`
	PlacesToVisit []Place        `json:"places_to_visit,omitempty"`
	Itinerary     []ItineraryDay `json:"itinerary,omitempty"`
	Expenses      []Expense      `json:"expenses,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateTripRequest is the request to create a new trip.
type CreateTripRequest struct {
	Name          string  `json:"name"`
	StartDate     string  `json:"start_date,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	Budget        float64 `json:"budget,omitempty"`
	PlacesToVisit []Place `json:"places_to_visit,omitempty"`
}

// UpdateTripRequest is the request to update a trip. Zero values are ignored.
type UpdateTripRequest struct {
	Name          string         `json:"name,omitempty"`
	StartDate     string         `json:"start_date,omitempty"`
	EndDate       string         `json:"end_date,omitempty"`
	Budget        float64        `json:"budget,omitempty"`
	PlacesToVisit []Place        `json:"places_to_visit,omitempty"`
	Itinerary     []ItineraryDay `json:"itinerary,omitempty"`
}

// AddActivityRequest appends an activity to one itinerary day.
type AddActivityRequest struct {
	Date     string   `json:"date"`
	Activity Activity `json:"activity"`
}

// AddExpenseRequest appends an expense to the trip.
type AddExpenseRequest struct {
	Expense Expense `json:"expense"`
}

// ListTripsResponse is the response for listing a user's trips.
type ListTripsResponse struct {
	Trips   []Trip `json:"trips"`
	Total   int    `json:"total"`
	HasMore bool   `json:"has_more"`
}
