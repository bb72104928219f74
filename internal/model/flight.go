package model

import (
	"strings"
	"time"
)

// UnresolvedCode is the sentinel for an airport whose IATA code is unknown.
const UnresolvedCode = "---"

// AirportRef identifies one endpoint of a flight search.
type AirportRef struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code"`
	City string `json:"city,omitempty"`
	Name string `json:"name,omitempty"`
}

// HasValidCode reports whether the ref carries a usable 3-letter IATA code.
func (a AirportRef) HasValidCode() bool {
	if len(a.Code) != 3 || a.Code == UnresolvedCode {
		return false
	}
	for _, r := range a.Code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Passengers is the party composition for a search.
type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// FlightSearchRequest is the body for the flight search endpoint.
type FlightSearchRequest struct {
	From        AirportRef `json:"from"`
	To          AirportRef `json:"to"`
	Date        string     `json:"date"`
	ReturnDate  string     `json:"return_date,omitempty"`
	FlightClass string     `json:"flight_class"`
	Passengers  Passengers `json:"passengers"`
}

// RoundTrip reports whether a return date was requested.
func (r *FlightSearchRequest) RoundTrip() bool {
	return r.ReturnDate != ""
}

type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrMissingOrigin      ValidationError = "from is required"
	ErrMissingDestination ValidationError = "to is required"
	ErrMissingDate        ValidationError = "date is required"
	ErrInvalidDate        ValidationError = "date must be YYYY-MM-DD"
)

// Validate normalizes the request and reports the first problem found.
func (r *FlightSearchRequest) Validate() error {
	if r.From.Code == "" && r.From.City == "" && r.From.ID == "" {
		return ErrMissingOrigin
	}
	if r.To.Code == "" && r.To.City == "" && r.To.ID == "" {
		return ErrMissingDestination
	}
	if r.Date == "" {
		return ErrMissingDate
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.ReturnDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReturnDate); err != nil {
			return ErrInvalidDate
		}
	}
	if r.FlightClass == "" {
		r.FlightClass = "Economy"
	}
	r.From.Code = strings.ToUpper(strings.TrimSpace(r.From.Code))
	r.To.Code = strings.ToUpper(strings.TrimSpace(r.To.Code))
	if r.Passengers.Adults < 1 {
		r.Passengers.Adults = 1
	}
	return nil
}

// FlightEndpoint is a departure or arrival point of an offer.
type FlightEndpoint struct {
	Code      string    `json:"code"`
	City      string    `json:"city"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

// FlightLeg summarizes the return portion of a round trip.
type FlightLeg struct {
	Airline      string         `json:"airline"`
	FlightNumber string         `json:"flight_number"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
}

// FlightOffer is one normalized search result. Offers are built fresh per
// search and never mutated afterwards, except for the batch class-price
// correction pass applied to real-API offers.
type FlightOffer struct {
	ID            string         `json:"id"`
	Airline       string         `json:"airline"`
	FlightName    string         `json:"flight_name"`
	AirlineLogo   string         `json:"airline_logo"`
	Date          string         `json:"date"`
	Departure     FlightEndpoint `json:"departure"`
	Arrival       FlightEndpoint `json:"arrival"`
	ReturnFlight  *FlightLeg     `json:"return_flight,omitempty"`
	StopCount     int            `json:"stop_count"`
	StopCity      string         `json:"stop_city,omitempty"`
	Duration      string         `json:"duration"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"original_price"`
	Tag           string         `json:"tag,omitempty"`
	Class         string         `json:"class"`
	Seats         int            `json:"seats"`
	Amenities     []string       `json:"amenities"`
}

// FlightSearchResponse wraps the offer list with search metadata.
type FlightSearchResponse struct {
	From         AirportRef    `json:"from"`
	To           AirportRef    `json:"to"`
	Date         string        `json:"date"`
	ReturnDate   string        `json:"return_date,omitempty"`
	FlightClass  string        `json:"flight_class"`
	TotalResults int           `json:"total_results"`
	Synthetic    bool          `json:"synthetic"`
	CacheHit     bool          `json:"cache_hit"`
	SearchTimeMs int64         `json:"search_time_ms"`
	Flights      []FlightOffer `json:"flights"`
}
