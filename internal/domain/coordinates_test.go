package domain

import (
	"math"
	"testing"
)

func TestCoordinatesDistanceMeters(t *testing.T) {
	bordeaux := Coordinates{Lon: -0.5792, Lat: 44.8378}
	paris := Coordinates{Lon: 2.3522, Lat: 48.8566}

	d := bordeaux.DistanceMeters(paris)
	// Bordeaux to Paris is roughly 500 km as the crow flies.
	if d < 495000 || d > 505000 {
		t.Fatalf("distance = %.0f, want about 500 km", d)
	}

	if back := paris.DistanceMeters(bordeaux); math.Abs(back-d) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", d, back)
	}
	if self := paris.DistanceMeters(paris); self != 0 {
		t.Fatalf("self distance = %v, want 0", self)
	}
}

func TestCoordinatesValid(t *testing.T) {
	cases := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{Lon: 0, Lat: 0}, true},
		{Coordinates{Lon: -180, Lat: 90}, true},
		{Coordinates{Lon: 181, Lat: 0}, false},
		{Coordinates{Lon: 0, Lat: -91}, false},
		{Coordinates{Lon: math.NaN(), Lat: 0}, false},
		{Coordinates{Lon: 0, Lat: math.Inf(1)}, false},
	}

	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("Valid(%v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}
