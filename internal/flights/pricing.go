package flights

import "strings"

// Pricing constants. Fares are estimated from great-circle distance when no
// live quote is available, and all prices are reported in INR.
const (
	defaultDistanceKm = 1000.0
	fixedFeeINR       = 3500.0
	usdToINR          = 86.0

	realMarkup      = 1.15
	syntheticMarkup = 1.2
)

// ratePerKm is the per-kilometer fare seed for a cabin class.
func ratePerKm(class string) float64 {
	switch normalizeClass(class) {
	case "business":
		return 25
	case "first":
		return 40
	default:
		return 12
	}
}

// cabinCode maps a class name to the google_flights seat_class parameter.
func cabinCode(class string) string {
	switch normalizeClass(class) {
	case "premium":
		return "2"
	case "business":
		return "3"
	case "first":
		return "4"
	default:
		return "1"
	}
}

// classMultiplier is the correction applied to live quotes, which the flight
// engine sometimes returns at economy level regardless of seat_class.
func classMultiplier(class string) float64 {
	switch normalizeClass(class) {
	case "premium":
		return 1.5
	case "business":
		return 2.5
	case "first":
		return 4.0
	default:
		return 1
	}
}

// syntheticMultiplier scales generated fares by cabin class.
func syntheticMultiplier(class string) float64 {
	switch normalizeClass(class) {
	case "premium":
		return 1.6
	case "business":
		return 3.5
	case "first":
		return 5.0
	default:
		return 1
	}
}

func normalizeClass(class string) string {
	c := strings.ToLower(class)
	switch {
	case strings.Contains(c, "first"):
		return "first"
	case strings.Contains(c, "business"):
		return "business"
	case strings.Contains(c, "premium"):
		return "premium"
	default:
		return "economy"
	}
}
