package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/travelplanner/travel-platform/internal/model"
)

// DefaultSystemPrompt is the assistant instruction used when no trip context
// is available.
const DefaultSystemPrompt = `You are "TravelPlanner AI" - a smart travel assistant.
Rules:
1. Be concise: at most 2-3 sentences.
2. Be friendly and polite.
3. Plain text only, no formatting.
4. Stay on topic: trip planning, budgets, itineraries.`

// tripContext is the token-frugal trip summary embedded in the system prompt.
// Only the fields the assistant needs survive; full activity objects are
// reduced to their titles.
type tripContext struct {
	TripName  string       `json:"trip_name"`
	StartDate string       `json:"start_date,omitempty"`
	EndDate   string       `json:"end_date,omitempty"`
	Budget    float64      `json:"budget,omitempty"`
	Itinerary []contextDay `json:"itinerary,omitempty"`
	Notes     string       `json:"notes,omitempty"`
}

type contextDay struct {
	Date       string   `json:"date"`
	Activities []string `json:"activities,omitempty"`
}

// TripSystemPrompt builds the assistant instruction for a trip-scoped chat.
func TripSystemPrompt(userName, userEmail string, trip *model.Trip) string {
	if userName == "" {
		userName = "Unknown"
	}
	if userEmail == "" {
		userEmail = "N/A"
	}

	return fmt.Sprintf(`You are a helpful travel assistant for a trip named %q.

CONTEXT:
1. USER: %s (%s)

2. TRIP SUMMARY:
   %s

INSTRUCTIONS:
- Answer questions based on the itinerary and budget.
- Avoid special characters and symbols.
- Avoid complex language.
- Keep responses concise.`, trip.Name, userName, userEmail, summarizeTrip(trip))
}

func summarizeTrip(trip *model.Trip) string {
	if trip == nil {
		return "No details available"
	}

	ctx := tripContext{
		TripName:  trip.Name,
		StartDate: trip.StartDate,
		EndDate:   trip.EndDate,
		Budget:    trip.Budget,
	}

	for _, day := range trip.Itinerary {
		cd := contextDay{Date: day.Date}
		for _, act := range day.Activities {
			title := act.Title
			if title == "" {
				title = "Activity"
			}
			cd.Activities = append(cd.Activities, title)
		}
		ctx.Itinerary = append(ctx.Itinerary, cd)
	}

	places := trip.PlacesToVisit
	if len(places) > 5 {
		places = places[:5]
	}
	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	ctx.Notes = strings.Join(names, ", ")

	data, err := json.Marshal(ctx)
	if err != nil {
		return "No details available"
	}
	return string(data)
}
