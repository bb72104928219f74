// Package places is a client for a Google Places-compatible API, used for
// airport autocomplete and geocoordinate lookups.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/geo"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

const (
	// DefaultBaseURL is the Google Places API root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	defaultTimeout = 15 * time.Second

	detailFields = "geometry,address_components,name,formatted_address"
)

// Client queries the Places API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	logger *logger.Logger
}

// NewClient creates a Places client.
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

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description          string `json:"description"`
	PlaceID              string `json:"place_id"`
	StructuredFormatting struct {
		MainText      string `json:"main_text"`
		SecondaryText string `json:"secondary_text"`
	} `json:"structured_formatting"`
	Terms []struct {
		Value string `json:"value"`
	} `json:"terms"`
}

type autocompleteResponse struct {
	Status      string       `json:"status"`
	Predictions []Prediction `json:"predictions"`
}

// Autocomplete returns airport suggestions for a free-text query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]Prediction, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("types", "airport")
	params.Set("key", c.APIKey)
	params.Set("language", "en")

	var resp autocompleteResponse
	if err := c.get(ctx, "/autocomplete/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		if resp.Status == "ZERO_RESULTS" {
			return nil, nil
		}
		return nil, fmt.Errorf("places autocomplete returned status %s", resp.Status)
	}
	return resp.Predictions, nil
}

// Details is the refined place information used for distance estimation.
type Details struct {
	Location geo.Point
	City     string
	Name     string
	Code     string
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Geometry struct {
			Location geo.Point `json:"location"`
		} `json:"geometry"`
		Name              string `json:"name"`
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"result"`
}

// Details fetches geometry, locality, and display name for a place id.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)
	params.Set("key", c.APIKey)

	var resp detailsResponse
	if err := c.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("places details returned status %s", resp.Status)
	}

	d := &Details{
		Location: resp.Result.Geometry.Location,
		Name:     resp.Result.Name,
		Code:     ExtractIATA(resp.Result.Name, resp.Result.FormattedAddress),
	}

	for _, comp := range resp.Result.AddressComponents {
		for _, t := range comp.Types {
			if t == "locality" {
				d.City = comp.LongName
				break
			}
		}
		if d.City != "" {
			break
		}
	}

	return d, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("places request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// IATA extraction patterns, tried in order: parenthesized code, trailing bare
// code, leading bare code, then any bare code.
var iataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([A-Z]{3})\)`),
	regexp.MustCompile(`\b([A-Z]{3})\b$`),
	regexp.MustCompile(`^([A-Z]{3})\b`),
	regexp.MustCompile(`\b([A-Z]{3})\b`),
}

// ExtractIATA scans the given texts for a 3-letter airport code.
func ExtractIATA(texts ...string) string {
	for _, pattern := range iataPatterns {
		for _, text := range texts {
			if text == "" {
				continue
			}
			if m := pattern.FindStringSubmatch(text); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
