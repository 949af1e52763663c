package domain

import (
	"fmt"
	"strings"
	"time"
)

// Transport modes accepted by the planner.
type Transport string

const (
	TransportByFoot Transport = "by_foot"
	TransportByCar  Transport = "by_car"
)

// DefaultMinimalRating is the rating above which a stop earns a rating bonus.
const DefaultMinimalRating = 3.0

// Traveler inputs for one trip. Category lists are ordered, most preferred first.
type Preferences struct {
	Zone                 string
	StartDate            time.Time
	DurationDays         int
	Transport            Transport
	POITypes             []string
	POIThemes            []string
	RestaurantCategories []string
	HostingCategories    []string
	WeatherSensitive     bool
	DaysOnHiking         float64
	MinimalRating        float64
}

// WithDefaults returns a copy of p with unset optional fields filled in.
func (p Preferences) WithDefaults() Preferences {
	if p.MinimalRating == 0 {
		p.MinimalRating = DefaultMinimalRating
	}
	if p.Transport == "" {
		p.Transport = TransportByCar
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	p.Zone = strings.TrimSpace(p.Zone)
	return p
}

// Validate rejects preferences the pipeline cannot plan for.
func (p Preferences) Validate() error {
	if p.DurationDays < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, p.DurationDays)
	}
	if p.DaysOnHiking < 0 || p.DaysOnHiking > float64(p.DurationDays) {
		return fmt.Errorf("%w: days_on_hiking %v outside [0, %d]", ErrInvalidPreferences, p.DaysOnHiking, p.DurationDays)
	}
	switch p.Transport {
	case "", TransportByFoot, TransportByCar:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidPreferences, p.Transport)
	}
	return nil
}

// EndDate is the last day of the trip window, inclusive.
func (p Preferences) EndDate() time.Time {
	return p.StartDate.AddDate(0, 0, p.DurationDays-1)
}
