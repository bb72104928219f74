// Package flights aggregates live flight quotes and normalizes them into
// offers, generating synthetic fallback offers when no provider data is
// available. A search always yields at least one offer.
package flights

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/geo"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/internal/places"
	"github.com/travelplanner/travel-platform/internal/ratelimit"
	"github.com/travelplanner/travel-platform/internal/serpapi"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

const (
	legTimeLayout   = "2006-01-02 15:04"
	clockFormat     = "3:04 PM"
	dateFormat      = "Mon, Jan 2"
	searchDateOnly  = "2006-01-02"
	bestPriceTag    = "Best Price"
	providerPlaces  = "places"
	providerFlights = "serpapi"
)

// PlaceDetailer looks up geometry and naming for a place id.
type PlaceDetailer interface {
	Configured() bool
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// FlightSearcher runs a live flight search.
type FlightSearcher interface {
	Configured() bool
	Search(ctx context.Context, p serpapi.SearchParams) (*serpapi.SearchResponse, error)
}

// Aggregator turns a search request into a normalized list of offers.
type Aggregator struct {
	places  PlaceDetailer
	engine  FlightSearcher
	limiter *ratelimit.UpstreamLimiter
	logger  *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an aggregator. rng may be nil, in which case a time-seeded
// source is used.
func New(placeAPI PlaceDetailer, engine FlightSearcher, limiter *ratelimit.UpstreamLimiter, log *logger.Logger, rng *rand.Rand) *Aggregator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Aggregator{
		places:  placeAPI,
		engine:  engine,
		limiter: limiter,
		logger:  log,
		rng:     rng,
	}
}

// Search returns offers for the request, sorted by departure time, and
// whether they are synthetic. Upstream failures never surface as errors;
// they degrade to the synthetic generator.
func (a *Aggregator) Search(ctx context.Context, req model.FlightSearchRequest) ([]model.FlightOffer, bool) {
	from, to := req.From, req.To

	distance := defaultDistanceKm
	if a.places != nil && a.places.Configured() && from.ID != "" && to.ID != "" {
		if d, ok := a.lookupDistance(ctx, &from, &to); ok {
			distance = d
		}
	}

	basePrice := math.Round(distance*ratePerKm(req.FlightClass) + fixedFeeINR)
	a.logger.Debug("estimated base fare",
		zap.Float64("distance_km", math.Round(distance)),
		zap.Float64("base_price", basePrice),
		zap.String("class", req.FlightClass))

	offers := a.searchLive(ctx, from, to, req)
	synthetic := len(offers) == 0
	if synthetic {
		offers = a.generateSynthetic(from, to, req)
		metrics.RecordFlightSearch("synthetic", len(offers))
	} else {
		correctClassPricing(offers, req.FlightClass)
		metrics.RecordFlightSearch("real", len(offers))
	}

	sort.Slice(offers, func(i, j int) bool {
		return offers[i].Departure.Timestamp.Before(offers[j].Departure.Timestamp)
	})

	return offers, synthetic
}

// lookupDistance fetches both endpoints and returns the great-circle
// distance between them, refining codes and city names along the way.
func (a *Aggregator) lookupDistance(ctx context.Context, from, to *model.AirportRef) (float64, bool) {
	fromDetails, err := a.placeDetails(ctx, from.ID)
	if err != nil {
		a.logger.Warn("origin place lookup failed", zap.String("place_id", from.ID), zap.Error(err))
		return 0, false
	}
	toDetails, err := a.placeDetails(ctx, to.ID)
	if err != nil {
		a.logger.Warn("destination place lookup failed", zap.String("place_id", to.ID), zap.Error(err))
		return 0, false
	}

	refineRef(from, fromDetails)
	refineRef(to, toDetails)

	return geo.Haversine(fromDetails.Location, toDetails.Location), true
}

func (a *Aggregator) placeDetails(ctx context.Context, placeID string) (*places.Details, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, providerPlaces); err != nil {
			return nil, err
		}
	}
	return a.places.Details(ctx, placeID)
}

// refineRef fills missing fields of a request airport from place details.
func refineRef(ref *model.AirportRef, d *places.Details) {
	if !ref.HasValidCode() && d.Code != "" {
		ref.Code = d.Code
	}
	if ref.City == "" {
		ref.City = d.City
	}
	if ref.Name == "" {
		ref.Name = d.Name
	}
}

// searchLive queries the flight engine and normalizes its itineraries.
// Returns nil on any failure so the caller can fall back.
func (a *Aggregator) searchLive(ctx context.Context, from, to model.AirportRef, req model.FlightSearchRequest) []model.FlightOffer {
	if a.engine == nil || !a.engine.Configured() {
		a.logger.Warn("flight engine not configured, using generated offers")
		return nil
	}
	if !from.HasValidCode() || !to.HasValidCode() {
		a.logger.Warn("missing airport codes, using generated offers",
			zap.String("from", from.Code),
			zap.String("to", to.Code))
		return nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, providerFlights); err != nil {
			return nil
		}
	}

	resp, err := a.engine.Search(ctx, serpapi.SearchParams{
		DepartureID:  from.Code,
		ArrivalID:    to.Code,
		OutboundDate: req.Date,
		ReturnDate:   req.ReturnDate,
		SeatClass:    cabinCode(req.FlightClass),
		Currency:     "INR",
	})
	if err != nil {
		a.logger.Error("flight search failed", zap.Error(err))
		return nil
	}

	itineraries := resp.All()
	offers := make([]model.FlightOffer, 0, len(itineraries))
	for i, itin := range itineraries {
		offer, ok := a.normalizeItinerary(i, itin, from, to, req)
		if !ok {
			continue
		}
		offers = append(offers, offer)
	}

	return offers
}

// normalizeItinerary converts one engine itinerary into an offer.
func (a *Aggregator) normalizeItinerary(index int, itin serpapi.Itinerary, from, to model.AirportRef, req model.FlightSearchRequest) (model.FlightOffer, bool) {
	if len(itin.Flights) == 0 {
		return model.FlightOffer{}, false
	}

	outbound, ret := partitionLegs(itin.Flights, to.Code, req.RoundTrip())
	if len(outbound) == 0 {
		return model.FlightOffer{}, false
	}

	first := outbound[0]
	last := outbound[len(outbound)-1]

	price := itin.Price
	// Quotes occasionally come back in USD despite the requested currency.
	if price > 0 && price < 1000 {
		price = math.Round(price * usdToINR)
	}

	departure := legEndpoint(first.DepartureAirport, from.City)
	arrival := legEndpoint(last.ArrivalAirport, to.City)

	offer := model.FlightOffer{
		ID:            fmt.Sprintf("gf_%d", index),
		Airline:       first.Airline,
		FlightName:    flightName(first.Airline, first.FlightNumber),
		AirlineLogo:   coalesce(first.AirlineLogo, itin.AirlineLogo),
		Date:          departure.Timestamp.Format(dateFormat),
		Departure:     departure,
		Arrival:       arrival,
		StopCount:     maxInt(0, len(outbound)-1),
		Duration:      formatDuration(itin.TotalDuration),
		Price:         price,
		OriginalPrice: math.Round(price * realMarkup),
		Class:         req.FlightClass,
		Seats:         a.intn(9) + 1,
		Amenities:     []string{"meal", "luggage"},
	}
	if index == 0 {
		offer.Tag = bestPriceTag
	}
	if offer.StopCount > 0 {
		offer.StopCity = outbound[0].ArrivalAirport.ID
	}
	if len(ret) > 0 {
		retFirst := ret[0]
		retLast := ret[len(ret)-1]
		offer.ReturnFlight = &model.FlightLeg{
			Airline:      retFirst.Airline,
			FlightNumber: retFirst.FlightNumber,
			Departure:    legEndpoint(retFirst.DepartureAirport, to.City),
			Arrival:      legEndpoint(retLast.ArrivalAirport, from.City),
		}
	}

	return offer, true
}

// partitionLegs splits an itinerary's legs into outbound and return groups.
// For round trips, legs accumulate into the outbound group until one arrives
// at the destination; if the destination never appears the first leg is
// treated as outbound and the rest as return. One-way itineraries are all
// outbound.
func partitionLegs(legs []serpapi.Leg, destCode string, roundTrip bool) (outbound, ret []serpapi.Leg) {
	if !roundTrip {
		return legs, nil
	}

	reached := false
	for _, leg := range legs {
		if reached {
			ret = append(ret, leg)
			continue
		}
		outbound = append(outbound, leg)
		if leg.ArrivalAirport.ID == destCode {
			reached = true
		}
	}

	if !reached && len(legs) >= 2 {
		return legs[:1], legs[1:]
	}
	return outbound, ret
}

// correctClassPricing scales live quotes up to the requested cabin class.
// The engine sometimes ignores seat_class and prices everything at economy,
// so premium cabins get a flat multiplier. Generated offers are already
// priced per class and are left alone.
func correctClassPricing(offers []model.FlightOffer, class string) {
	mult := classMultiplier(class)
	if mult == 1 {
		return
	}
	for i := range offers {
		if !strings.HasPrefix(offers[i].ID, "gf_") {
			continue
		}
		offers[i].Price = math.Round(offers[i].Price * mult)
		offers[i].OriginalPrice = math.Round(offers[i].OriginalPrice * mult)
		offers[i].Class = class
	}
}

func legEndpoint(ap serpapi.Airport, city string) model.FlightEndpoint {
	ts, err := time.Parse(legTimeLayout, ap.Time)
	ep := model.FlightEndpoint{
		Code: ap.ID,
		City: city,
	}
	if ep.City == "" {
		ep.City = ap.Name
	}
	if err == nil {
		ep.Time = ts.Format(clockFormat)
		ep.Timestamp = ts
	}
	return ep
}

func flightName(airline, number string) string {
	prefix := airline
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return strings.ToUpper(prefix) + " " + number
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (a *Aggregator) intn(n int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(n)
}

func (a *Aggregator) float64() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64()
}
