package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/airports"
	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/internal/places"
	"github.com/travelplanner/travel-platform/pkg/logger"
)

// Autocompleter returns airport suggestions for a free-text query.
type Autocompleter interface {
	Configured() bool
	Autocomplete(ctx context.Context, query string) ([]places.Prediction, error)
}

// AirportsHandler handles airport lookup endpoints.
type AirportsHandler struct {
	places   Autocompleter
	resolver *airports.Resolver
	logger   *logger.Logger
}

// NewAirportsHandler creates a new airports handler.
func NewAirportsHandler(p Autocompleter, resolver *airports.Resolver, log *logger.Logger) *AirportsHandler {
	return &AirportsHandler{
		places:   p,
		resolver: resolver,
		logger:   log,
	}
}

type airportsResponse struct {
	Airports []model.AirportRef `json:"airports"`
}

// Search handles GET /api/v1/airports?query=. Suggestions come from the
// places API; when it is unavailable or empty, the code resolver gets one
// shot at the raw query.
func (h *AirportsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	var refs []model.AirportRef

	if h.places != nil && h.places.Configured() {
		predictions, err := h.places.Autocomplete(r.Context(), query)
		if err != nil {
			h.logger.Warn("airport autocomplete failed",
				zap.String("query", query),
				zap.Error(err))
		}
		for _, p := range predictions {
			refs = append(refs, model.AirportRef{
				ID:   p.PlaceID,
				Name: p.StructuredFormatting.MainText,
				City: p.StructuredFormatting.SecondaryText,
				Code: places.ExtractIATA(p.StructuredFormatting.MainText, p.Description),
			})
		}
	}

	if len(refs) == 0 {
		if code := h.resolver.Resolve(r.Context(), query); code != "" {
			refs = append(refs, model.AirportRef{
				Code: code,
				City: query,
			})
		}
	}

	if refs == nil {
		refs = []model.AirportRef{}
	}

	writeJSON(w, http.StatusOK, airportsResponse{Airports: refs})
}
