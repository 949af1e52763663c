package dto

import (
	"strings"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
)

const MaxDurationDays = 30

type ItineraryRequest struct {
	Zone                 string   `json:"zone"`
	StartDate            string   `json:"start_date"`
	DurationDays         int      `json:"duration_days"`
	Transport            string   `json:"transport"`
	POITypes             []string `json:"poi_types"`
	POIThemes            []string `json:"poi_themes"`
	RestaurantCategories []string `json:"restaurant_categories"`
	HostingCategories    []string `json:"hosting_categories"`
	WeatherSensitive     bool     `json:"weather_sensitive"`
	DaysOnHiking         float64  `json:"days_on_hiking"`
	MinimalRating        float64  `json:"minimal_rating"`
}

type StopResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Lon    float64  `json:"lon"`
	Lat    float64  `json:"lat"`
	City   string   `json:"city,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Score  float64  `json:"score"`
	Day    int      `json:"day,omitempty"`
	Rank   int      `json:"rank,omitempty"`
}

type DayResponse struct {
	Day   int            `json:"day"`
	Stops []StopResponse `json:"stops"`
}

type WarningResponse struct {
	Day     int    `json:"day,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ItineraryResponse struct {
	Zone     string            `json:"zone"`
	Refined  bool              `json:"refined"`
	Days     []DayResponse     `json:"days"`
	Warnings []WarningResponse `json:"warnings"`
}

// Preferences validates the request shape and converts it.
func (r ItineraryRequest) Preferences() (domain.Preferences, error) {
	prefs := domain.Preferences{
		Zone:                 strings.TrimSpace(r.Zone),
		DurationDays:         r.DurationDays,
		Transport:            domain.Transport(r.Transport),
		POITypes:             r.POITypes,
		POIThemes:            r.POIThemes,
		RestaurantCategories: r.RestaurantCategories,
		HostingCategories:    r.HostingCategories,
		WeatherSensitive:     r.WeatherSensitive,
		DaysOnHiking:         r.DaysOnHiking,
		MinimalRating:        r.MinimalRating,
	}

	if prefs.Zone == "" {
		return prefs, eris.New("zone is required")
	}
	if prefs.DurationDays < 1 || prefs.DurationDays > MaxDurationDays {
		return prefs, eris.Errorf("duration_days must be between 1 and %d", MaxDurationDays)
	}
	if r.StartDate != "" {
		start, err := time.Parse(time.DateOnly, r.StartDate)
		if err != nil {
			return prefs, eris.New("start_date must be YYYY-MM-DD")
		}
		prefs.StartDate = start
	}
	return prefs, nil
}

func NewStopResponse(s *domain.Stop) StopResponse {
	return StopResponse{
		ID:     s.ID,
		Name:   s.Name,
		Kind:   string(s.Kind),
		Lon:    s.Coordinates.Lon,
		Lat:    s.Coordinates.Lat,
		City:   s.Place.City,
		Tags:   s.AllTags(),
		Rating: s.Rating,
		Score:  s.Score,
		Day:    s.Day,
		Rank:   s.Rank,
	}
}

// NewItineraryResponse groups the itinerary's stops by day, in rank order.
func NewItineraryResponse(zone string, it *domain.Itinerary) ItineraryResponse {
	res := ItineraryResponse{
		Zone:     zone,
		Refined:  it.Refined,
		Days:     make([]DayResponse, 0, it.Days()),
		Warnings: make([]WarningResponse, 0, len(it.Warnings)),
	}
	for d := 1; d <= it.Days(); d++ {
		day := DayResponse{Day: d, Stops: []StopResponse{}}
		for _, s := range it.Day(d) {
			day.Stops = append(day.Stops, NewStopResponse(s))
		}
		res.Days = append(res.Days, day)
	}
	for _, w := range it.Warnings {
		res.Warnings = append(res.Warnings, WarningResponse{Day: w.Day, Kind: string(w.Kind), Message: w.Message})
	}
	return res
}
