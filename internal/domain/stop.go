package domain

import (
	"fmt"
	"strings"
)

// BaselineScore is the score every stop starts from, so that no stop is
// ever eliminated solely for lacking signals.
const BaselineScore = 0.1

// NoCluster marks a stop that has not been assigned to a day cluster.
const NoCluster = -1

// Kind discriminates the variants a Stop can take.
type Kind string

const (
	KindPOI         Kind = "poi"
	KindRestaurant  Kind = "restaurant"
	KindHosting     Kind = "hosting"
	KindTrail       Kind = "trail"
	KindConvenience Kind = "convenience"
)

// Kinds lists every known stop kind in a stable order.
var Kinds = []Kind{KindPOI, KindRestaurant, KindHosting, KindTrail, KindConvenience}

// ParseKind maps a stored or user supplied kind name onto a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("parse kind: unknown stop kind %q", s)
}

// Place is the human facing location of a stop.
type Place struct {
	City       string
	PostalCode string
}

// POI specific tags.
type POIAttributes struct {
	Types  []string
	Themes []string
}

// Trail specific attributes.
type TrailAttributes struct {
	DistanceKm    float64
	DurationHours float64
}

// Represents a geolocated candidate the traveler may visit: a point of
// interest, a restaurant, a lodging, a trail or a convenience.
//
// Score, Cluster, Day and Rank are filled in by the synthesis pipeline.
// Day and Rank are 1-based; zero means unassigned.
type Stop struct {
	ID          string
	Name        string
	Kind        Kind
	Coordinates Coordinates
	Place       Place
	Tags        []string
	Rating      *float64

	POI   *POIAttributes
	Trail *TrailAttributes

	Score   float64
	Cluster int
	Day     int
	Rank    int
}

// NewStop builds an unscored, unplaced stop.
func NewStop(id, name string, kind Kind, coords Coordinates) *Stop {
	s := &Stop{
		ID:          id,
		Name:        name,
		Kind:        kind,
		Coordinates: coords,
		Score:       BaselineScore,
		Cluster:     NoCluster,
	}
	if kind == KindPOI {
		s.POI = &POIAttributes{}
	}
	return s
}

// Validate reports the first structural problem with s, wrapped in ErrMalformedStop.
func (s *Stop) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil stop", ErrMalformedStop)
	}
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedStop)
	}
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return fmt.Errorf("%w: stop %s: %v", ErrMalformedStop, s.ID, err)
	}
	if !s.Coordinates.Valid() {
		return fmt.Errorf("%w: stop %s: invalid coordinates (%v, %v)", ErrMalformedStop, s.ID, s.Coordinates.Lon, s.Coordinates.Lat)
	}
	if s.Rating != nil && (*s.Rating < 0 || *s.Rating > 5) {
		return fmt.Errorf("%w: stop %s: rating %v out of range [0, 5]", ErrMalformedStop, s.ID, *s.Rating)
	}
	return nil
}

// AllTags returns the stop's category tags plus, for POIs, its type and
// theme tags, lower-cased and without duplicates.
func (s *Stop) AllTags() []string {
	if s.POI == nil {
		return normalizeTags(s.Tags)
	}
	return normalizeTags(s.Tags, s.POI.Types, s.POI.Themes)
}

// TypeTags is the category tags plus POI types.
func (s *Stop) TypeTags() []string {
	if s.POI == nil {
		return normalizeTags(s.Tags)
	}
	return normalizeTags(s.Tags, s.POI.Types)
}

// ThemeTags is the category tags plus POI themes.
func (s *Stop) ThemeTags() []string {
	if s.POI == nil {
		return normalizeTags(s.Tags)
	}
	return normalizeTags(s.Tags, s.POI.Themes)
}

func normalizeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, tags := range lists {
		for _, t := range tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Placed reports whether the stop carries a (day, rank) position.
func (s *Stop) Placed() bool { return s.Day > 0 && s.Rank > 0 }

// Clone returns a copy that shares no mutable state with s.
func (s *Stop) Clone() *Stop {
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	if s.Rating != nil {
		r := *s.Rating
		c.Rating = &r
	}
	if s.POI != nil {
		c.POI = &POIAttributes{
			Types:  append([]string(nil), s.POI.Types...),
			Themes: append([]string(nil), s.POI.Themes...),
		}
	}
	if s.Trail != nil {
		t := *s.Trail
		c.Trail = &t
	}
	return &c
}
