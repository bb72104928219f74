package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	delhi := Point{Lat: 28.5562, Lng: 77.1000}
	mumbai := Point{Lat: 19.0896, Lng: 72.8656}

	d := Haversine(delhi, mumbai)
	if d < 1100 || d > 1200 {
		t.Errorf("DEL-BOM distance out of range: %v", d)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	p := Point{Lat: 12.97, Lng: 77.59}
	if d := Haversine(p, p); math.Abs(d) > 1e-9 {
		t.Errorf("expected zero distance, got %v", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Point{Lat: 13.1986, Lng: 77.7066}
	b := Point{Lat: 9.9312, Lng: 76.2673}
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}
