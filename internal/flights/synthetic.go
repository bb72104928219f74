package flights

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/model"
)

// carrier is one airline in the synthetic roster.
type carrier struct {
	name string
	code string
}

var syntheticCarriers = []carrier{
	{name: "Indigo", code: "6E"},
	{name: "Air India", code: "AI"},
	{name: "Vistara", code: "UK"},
	{name: "SpiceJet", code: "SG"},
	{name: "Akasa Air", code: "QP"},
}

const airlineLogoURL = "https://www.gstatic.com/flights/airline_logos/70px/%s.png"

// generateSynthetic builds plausible offers for the route when no live data
// is available. Fares scale with flight duration and cabin class.
func (a *Aggregator) generateSynthetic(from, to model.AirportRef, req model.FlightSearchRequest) []model.FlightOffer {
	a.logger.Info("generating synthetic offers",
		zap.String("from", from.Code),
		zap.String("to", to.Code),
		zap.String("class", req.FlightClass))

	fromCode, fromCity := coalesce(from.Code, "DEL"), coalesce(from.City, "New Delhi")
	toCode, toCity := coalesce(to.Code, "BOM"), coalesce(to.City, "Mumbai")

	day, err := time.Parse(searchDateOnly, req.Date)
	if err != nil {
		day = time.Now()
	}

	mult := syntheticMultiplier(req.FlightClass)
	amenities := []string{"meal", "luggage", "entertainment"}
	if normalizeClass(req.FlightClass) == "economy" {
		amenities = []string{"meal"}
	}

	count := 5 + a.intn(5)
	offers := make([]model.FlightOffer, 0, count)
	for i := 0; i < count; i++ {
		airline := syntheticCarriers[a.intn(len(syntheticCarriers))]

		depHour := 5 + a.intn(16)
		depMin := a.intn(2) * 30
		durationMin := 60 + a.intn(180)

		dep := time.Date(day.Year(), day.Month(), day.Day(), depHour, depMin, 0, 0, time.UTC)
		arr := dep.Add(time.Duration(durationMin) * time.Minute)

		price := math.Round((3000 + a.float64()*2000) * (float64(durationMin) / 60) * mult)

		offer := model.FlightOffer{
			ID:          fmt.Sprintf("mock_%d", i),
			Airline:     airline.name,
			FlightName:  fmt.Sprintf("%s %d", airline.code, 100+a.intn(900)),
			AirlineLogo: fmt.Sprintf(airlineLogoURL, airline.code),
			Date:        dep.Format(dateFormat),
			Departure: model.FlightEndpoint{
				Code:      fromCode,
				City:      fromCity,
				Time:      dep.Format(clockFormat),
				Timestamp: dep,
			},
			Arrival: model.FlightEndpoint{
				Code:      toCode,
				City:      toCity,
				Time:      arr.Format(clockFormat),
				Timestamp: arr,
			},
			Duration:      formatDuration(durationMin),
			Price:         price,
			OriginalPrice: math.Round(price * syntheticMarkup),
			Class:         req.FlightClass,
			Seats:         a.intn(15) + 1,
			Amenities:     amenities,
		}
		switch i {
		case 0:
			offer.Tag = "Cheapest"
		case 1:
			offer.Tag = "Fastest"
		}

		offers = append(offers, offer)
	}

	return offers
}
