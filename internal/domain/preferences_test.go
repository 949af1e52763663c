package domain

import (
	"errors"
	"testing"
	"time"
)

func TestPreferencesValidate(t *testing.T) {
	p := Preferences{Zone: "33000", DurationDays: 0}
	if err := p.Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}

	p.DurationDays = 2
	p.DaysOnHiking = 3
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for hiking days beyond trip length")
	}

	p.DaysOnHiking = 1
	p.Transport = "by_boat"
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for unknown transport")
	}

	p.Transport = TransportByFoot
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPreferencesWithDefaults(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := Preferences{Zone: " 33000 ", StartDate: start, DurationDays: 3}.WithDefaults()

	if p.MinimalRating != DefaultMinimalRating {
		t.Fatalf("minimal rating = %v", p.MinimalRating)
	}
	if p.Transport != TransportByCar {
		t.Fatalf("transport = %q", p.Transport)
	}
	if p.Zone != "33000" {
		t.Fatalf("zone = %q", p.Zone)
	}
	if want := start.AddDate(0, 0, 2); !p.EndDate().Equal(want) {
		t.Fatalf("end date = %v, want %v", p.EndDate(), want)
	}
}
