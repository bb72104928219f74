// Package serpapi is a client for the SerpApi Google Flights engine.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/pkg/logger"
)

const (
	// DefaultBaseURL is the SerpApi root.
	DefaultBaseURL = "https://serpapi.com"

	defaultTimeout = 20 * time.Second
)

// Trip type codes understood by the google_flights engine.
const (
	TripTypeRoundTrip = "1"
	TripTypeOneWay    = "2"
)

// SearchParams are the inputs to a flight search.
type SearchParams struct {
	DepartureID  string
	ArrivalID    string
	OutboundDate string
	ReturnDate   string
	SeatClass    string
	Currency     string
}

// Airport is one endpoint of a flight leg.
type Airport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	// Time is a naive local time formatted "2006-01-02 15:04".
	Time string `json:"time"`
}

// Leg is one flight segment within an itinerary.
type Leg struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         int     `json:"duration"`
	Airline          string  `json:"airline"`
	AirlineLogo      string  `json:"airline_logo"`
	FlightNumber     string  `json:"flight_number"`
}

// Itinerary is one bookable option, possibly spanning multiple legs.
type Itinerary struct {
	Flights       []Leg   `json:"flights"`
	TotalDuration int     `json:"total_duration"`
	Price         float64 `json:"price"`
	AirlineLogo   string  `json:"airline_logo"`
}

// SearchResponse is the subset of the engine response we consume.
type SearchResponse struct {
	BestFlights  []Itinerary `json:"best_flights"`
	OtherFlights []Itinerary `json:"other_flights"`
	Error        string      `json:"error,omitempty"`
}

// All returns best and other flights as a single ordered list, best first.
func (r *SearchResponse) All() []Itinerary {
	all := make([]Itinerary, 0, len(r.BestFlights)+len(r.OtherFlights))
	all = append(all, r.BestFlights...)
	all = append(all, r.OtherFlights...)
	return all
}

// Client queries SerpApi.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	logger *logger.Logger
}

// NewClient creates a SerpApi client.
func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		logger:     log,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

// Search runs a google_flights search.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", p.DepartureID)
	params.Set("arrival_id", p.ArrivalID)
	params.Set("outbound_date", p.OutboundDate)
	params.Set("currency", p.Currency)
	params.Set("hl", "en")
	params.Set("seat_class", p.SeatClass)
	params.Set("api_key", c.APIKey)

	if p.ReturnDate != "" {
		params.Set("type", TripTypeRoundTrip)
		params.Set("return_date", p.ReturnDate)
	} else {
		params.Set("type", TripTypeOneWay)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("flight search failed",
			zap.Int("status", resp.StatusCode),
			zap.String("departure", p.DepartureID),
			zap.String("arrival", p.ArrivalID))
		return nil, fmt.Errorf("flight API returned status %d", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("flight API error: %s", sr.Error)
	}

	return &sr, nil
}
