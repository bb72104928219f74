package flights

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/travelplanner/travel-platform/internal/geo"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/internal/places"
	"github.com/travelplanner/travel-platform/internal/serpapi"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

type fakeDetailer struct {
	details map[string]*places.Details
}

func (f *fakeDetailer) Configured() bool { return true }

func (f *fakeDetailer) Details(ctx context.Context, placeID string) (*places.Details, error) {
	d, ok := f.details[placeID]
	if !ok {
		return nil, errors.New("place not found")
	}
	return d, nil
}

type fakeEngine struct {
	configured bool
	resp       *serpapi.SearchResponse
	err        error
	lastParams serpapi.SearchParams
}

func (f *fakeEngine) Configured() bool { return f.configured }

func (f *fakeEngine) Search(ctx context.Context, p serpapi.SearchParams) (*serpapi.SearchResponse, error) {
	f.lastParams = p
	return f.resp, f.err
}

func testAggregator(detailer PlaceDetailer, engine FlightSearcher) *Aggregator {
	return New(detailer, engine, nil, logger.NewNop(), rand.New(rand.NewSource(1)))
}

func delBomRequest(class string) model.FlightSearchRequest {
	return model.FlightSearchRequest{
		From:        model.AirportRef{Code: "DEL", City: "New Delhi"},
		To:          model.AirportRef{Code: "BOM", City: "Mumbai"},
		Date:        "2026-09-15",
		FlightClass: class,
		Passengers:  model.Passengers{Adults: 1},
	}
}

func singleLegResponse(price float64) *serpapi.SearchResponse {
	return &serpapi.SearchResponse{
		BestFlights: []serpapi.Itinerary{
			{
				Flights: []serpapi.Leg{
					{
						DepartureAirport: serpapi.Airport{ID: "DEL", Name: "Indira Gandhi Intl", Time: "2026-09-15 08:30"},
						ArrivalAirport:   serpapi.Airport{ID: "BOM", Name: "Chhatrapati Shivaji Intl", Time: "2026-09-15 10:45"},
						Duration:         135,
						Airline:          "Indigo",
						FlightNumber:     "6E 204",
					},
				},
				TotalDuration: 135,
				Price:         price,
			},
		},
	}
}

func TestSearchConvertsUSDQuotes(t *testing.T) {
	engine := &fakeEngine{configured: true, resp: singleLegResponse(500)}
	agg := testAggregator(nil, engine)

	offers, synthetic := agg.Search(context.Background(), delBomRequest("Economy"))
	if synthetic {
		t.Fatal("expected live offers")
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}

	offer := offers[0]
	// 500 is below the INR floor, so it is treated as USD.
	if offer.Price != 43000 {
		t.Errorf("expected price 43000, got %v", offer.Price)
	}
	if offer.OriginalPrice != 49450 {
		t.Errorf("expected original price 49450, got %v", offer.OriginalPrice)
	}
	if offer.ID != "gf_0" {
		t.Errorf("expected id gf_0, got %q", offer.ID)
	}
	if offer.Tag != bestPriceTag {
		t.Errorf("expected best price tag, got %q", offer.Tag)
	}
	if offer.StopCount != 0 {
		t.Errorf("expected nonstop, got %d stops", offer.StopCount)
	}
	if offer.Duration != "2h 15m" {
		t.Errorf("unexpected duration %q", offer.Duration)
	}
	if offer.Departure.Time != "8:30 AM" || offer.Arrival.Time != "10:45 AM" {
		t.Errorf("unexpected times %q, %q", offer.Departure.Time, offer.Arrival.Time)
	}
}

func TestSearchKeepsINRQuotes(t *testing.T) {
	engine := &fakeEngine{configured: true, resp: singleLegResponse(5200)}
	agg := testAggregator(nil, engine)

	offers, _ := agg.Search(context.Background(), delBomRequest("Economy"))
	if offers[0].Price != 5200 {
		t.Errorf("expected price 5200, got %v", offers[0].Price)
	}
}

func TestSearchAppliesBusinessClassCorrection(t *testing.T) {
	engine := &fakeEngine{configured: true, resp: singleLegResponse(10000)}
	agg := testAggregator(nil, engine)

	offers, _ := agg.Search(context.Background(), delBomRequest("Business"))
	if offers[0].Price != 25000 {
		t.Errorf("expected price 25000, got %v", offers[0].Price)
	}
	if offers[0].Class != "Business" {
		t.Errorf("expected class Business, got %q", offers[0].Class)
	}
	if engine.lastParams.SeatClass != "3" {
		t.Errorf("expected seat_class 3, got %q", engine.lastParams.SeatClass)
	}
}

func TestSearchFallsBackToSyntheticOnEngineError(t *testing.T) {
	engine := &fakeEngine{configured: true, err: errors.New("upstream down")}
	agg := testAggregator(nil, engine)

	offers, synthetic := agg.Search(context.Background(), delBomRequest("Economy"))
	if !synthetic {
		t.Fatal("expected synthetic offers")
	}
	if len(offers) < 5 || len(offers) > 10 {
		t.Fatalf("expected 5-10 offers, got %d", len(offers))
	}
	for i, offer := range offers {
		if !strings.HasPrefix(offer.ID, "mock_") {
			t.Errorf("offer %d: expected mock id, got %q", i, offer.ID)
		}
		if offer.Price <= 0 {
			t.Errorf("offer %d: non-positive price %v", i, offer.Price)
		}
		if len(offer.Amenities) != 1 || offer.Amenities[0] != "meal" {
			t.Errorf("offer %d: economy amenities should be [meal], got %v", i, offer.Amenities)
		}
		if offer.Seats < 1 || offer.Seats > 15 {
			t.Errorf("offer %d: seats out of range: %d", i, offer.Seats)
		}
	}
	for i := 1; i < len(offers); i++ {
		if offers[i].Departure.Timestamp.Before(offers[i-1].Departure.Timestamp) {
			t.Errorf("offers not sorted by departure at index %d", i)
		}
	}
}

func TestSearchSyntheticPremiumAmenities(t *testing.T) {
	agg := testAggregator(nil, &fakeEngine{configured: false})

	offers, synthetic := agg.Search(context.Background(), delBomRequest("Business"))
	if !synthetic {
		t.Fatal("expected synthetic offers")
	}
	for i, offer := range offers {
		if len(offer.Amenities) != 3 {
			t.Errorf("offer %d: expected 3 amenities, got %v", i, offer.Amenities)
		}
	}
}

func TestSearchUnresolvedCodesSkipEngine(t *testing.T) {
	engine := &fakeEngine{configured: true, resp: singleLegResponse(5000)}
	agg := testAggregator(nil, engine)

	req := delBomRequest("Economy")
	req.To.Code = model.UnresolvedCode

	_, synthetic := agg.Search(context.Background(), req)
	if !synthetic {
		t.Fatal("expected synthetic fallback for unresolved code")
	}
}

func TestLookupDistanceRefinesEndpoints(t *testing.T) {
	detailer := &fakeDetailer{details: map[string]*places.Details{
		"place-del": {Location: geo.Point{Lat: 28.5562, Lng: 77.1000}, City: "New Delhi", Code: "DEL"},
		"place-bom": {Location: geo.Point{Lat: 19.0896, Lng: 72.8656}, City: "Mumbai", Code: "BOM"},
	}}
	agg := testAggregator(detailer, &fakeEngine{configured: false})

	from := model.AirportRef{ID: "place-del"}
	to := model.AirportRef{ID: "place-bom"}
	distance, ok := agg.lookupDistance(context.Background(), &from, &to)
	if !ok {
		t.Fatal("expected distance lookup to succeed")
	}
	// DEL-BOM is roughly 1140 km great-circle.
	if distance < 1100 || distance > 1200 {
		t.Errorf("unexpected distance %v", distance)
	}
	if from.Code != "DEL" || to.Code != "BOM" {
		t.Errorf("expected codes refined, got %q, %q", from.Code, to.Code)
	}
	if from.City != "New Delhi" || to.City != "Mumbai" {
		t.Errorf("expected cities refined, got %q, %q", from.City, to.City)
	}
}

func TestPartitionLegsRoundTrip(t *testing.T) {
	legs := []serpapi.Leg{
		{ArrivalAirport: serpapi.Airport{ID: "HYD"}},
		{ArrivalAirport: serpapi.Airport{ID: "BOM"}},
		{ArrivalAirport: serpapi.Airport{ID: "HYD"}},
		{ArrivalAirport: serpapi.Airport{ID: "DEL"}},
	}

	outbound, ret := partitionLegs(legs, "BOM", true)
	if len(outbound) != 2 || len(ret) != 2 {
		t.Fatalf("expected 2+2 split, got %d+%d", len(outbound), len(ret))
	}
	if outbound[1].ArrivalAirport.ID != "BOM" {
		t.Errorf("outbound should end at BOM, got %q", outbound[1].ArrivalAirport.ID)
	}
}

func TestPartitionLegsDestinationNeverReached(t *testing.T) {
	legs := []serpapi.Leg{
		{ArrivalAirport: serpapi.Airport{ID: "HYD"}},
		{ArrivalAirport: serpapi.Airport{ID: "DEL"}},
	}

	outbound, ret := partitionLegs(legs, "BOM", true)
	if len(outbound) != 1 || len(ret) != 1 {
		t.Fatalf("expected 1-vs-rest split, got %d+%d", len(outbound), len(ret))
	}

	outbound, ret = partitionLegs(legs, "BOM", false)
	if len(outbound) != 2 || ret != nil {
		t.Fatalf("one-way should keep all legs outbound, got %d+%d", len(outbound), len(ret))
	}
}

func TestCabinCodes(t *testing.T) {
	cases := map[string]string{
		"Economy":         "1",
		"Premium Economy": "2",
		"Business":        "3",
		"First":           "4",
		"":                "1",
	}
	for class, want := range cases {
		if got := cabinCode(class); got != want {
			t.Errorf("cabinCode(%q) = %q, want %q", class, got, want)
		}
	}
}
