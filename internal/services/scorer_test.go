package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultScorerConfig(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func poi(id, name string, lon, lat float64, types ...string) *domain.Stop {
	s := domain.NewStop(id, name, domain.KindPOI, domain.Coordinates{Lon: lon, Lat: lat})
	s.POI.Types = types
	return s
}

func TestScoreNeverBelowBaseline(t *testing.T) {
	s := newTestScorer(t)
	low := 1.0

	stops := []*domain.Stop{
		poi("p1", "Nowhere", -0.57, 44.84),
		domain.NewStop("r1", "Diner", domain.KindRestaurant, domain.Coordinates{Lon: -0.57, Lat: 44.84}),
		domain.NewStop("h1", "Inn", domain.KindHosting, domain.Coordinates{Lon: -0.57, Lat: 44.84}),
		domain.NewStop("t1", "Loop", domain.KindTrail, domain.Coordinates{Lon: -0.57, Lat: 44.84}),
		domain.NewStop("c1", "WC", domain.KindConvenience, domain.Coordinates{Lon: -0.57, Lat: 44.84}),
	}
	stops[1].Rating = &low

	for _, stop := range stops {
		got, err := s.Score(stop, domain.Preferences{DurationDays: 1}, domain.Signals{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, domain.BaselineScore, stop.ID)
	}
}

func TestScorePreferenceOrderMatters(t *testing.T) {
	s := newTestScorer(t)
	prefs := domain.Preferences{DurationDays: 2, POITypes: []string{"museum", "park", "church"}}

	museum, err := s.Score(poi("m", "M", 0, 0, "Museum"), prefs, domain.Signals{})
	require.NoError(t, err)
	church, err := s.Score(poi("c", "C", 0, 0, "church"), prefs, domain.Signals{})
	require.NoError(t, err)

	assert.InDelta(t, domain.BaselineScore+10*3, museum, 1e-9)
	assert.InDelta(t, domain.BaselineScore+10*1, church, 1e-9)
}

func TestScorePopularityFirstHitOnly(t *testing.T) {
	s := newTestScorer(t)
	signals := domain.Signals{
		WeatherFavorable: true,
		PopularPOIs:      []string{"Grosse Cloche", "Musée d'Aquitaine", "Musee d Aquitaine"},
	}

	got, err := s.Score(poi("m", "musee d'aquitaine", 0, 0), domain.Preferences{DurationDays: 1}, signals)
	require.NoError(t, err)
	// matched at index 1 of 3, the duplicate at index 2 is ignored
	assert.InDelta(t, domain.BaselineScore+10*2, got, 1e-9)
}

func TestScoreRestaurantPopularityAndRating(t *testing.T) {
	s := newTestScorer(t)
	rating := 4.5
	r := domain.NewStop("r", "Le Petit Commerce", domain.KindRestaurant, domain.Coordinates{})
	r.Tags = []string{"seafood"}
	r.Rating = &rating

	prefs := domain.Preferences{DurationDays: 1, RestaurantCategories: []string{"french", "seafood"}}
	signals := domain.Signals{PopularRestaurants: []string{"Le Petit Commerce"}}

	got, err := s.Score(r, prefs, signals)
	require.NoError(t, err)
	want := domain.BaselineScore + 10*1 + 10*1 + 10*(4.5-domain.DefaultMinimalRating)
	assert.InDelta(t, want, got, 1e-9)
}

func TestScoreMuseumAboveParkInBadWeather(t *testing.T) {
	s := newTestScorer(t)
	prefs := domain.Preferences{DurationDays: 1, WeatherSensitive: true}
	bad := domain.Signals{WeatherFavorable: false}

	museum, err := s.Score(poi("m", "Museum", 0, 0, "museum"), prefs, bad)
	require.NoError(t, err)
	park, err := s.Score(poi("p", "Park", 0, 0, "park"), prefs, bad)
	require.NoError(t, err)
	assert.Greater(t, museum, park)

	good := domain.Signals{WeatherFavorable: true}
	museum, _ = s.Score(poi("m", "Museum", 0, 0, "museum"), prefs, good)
	park, _ = s.Score(poi("p", "Park", 0, 0, "park"), prefs, good)
	assert.Greater(t, park, museum)

	// insensitive travelers get no weather bonus
	prefs.WeatherSensitive = false
	museum, _ = s.Score(poi("m", "Museum", 0, 0, "museum"), prefs, bad)
	park, _ = s.Score(poi("p", "Park", 0, 0, "park"), prefs, bad)
	assert.Equal(t, museum, park)
}

func TestScoreTrailUsesHikingDays(t *testing.T) {
	s := newTestScorer(t)
	trail := domain.NewStop("t", "GR", domain.KindTrail, domain.Coordinates{})

	got, err := s.Score(trail, domain.Preferences{DurationDays: 3, DaysOnHiking: 1.5}, domain.Signals{})
	require.NoError(t, err)
	assert.InDelta(t, domain.BaselineScore+15, got, 1e-9)
}

func TestScoreAllLogsMalformedStops(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := NewScorer(DefaultScorerConfig(), zap.New(core))
	require.NoError(t, err)

	good := poi("ok", "Museum", 0, 0, "museum")
	broken := poi("broken", "Nowhere", 999, 0, "museum")
	broken.Score = 42

	warnings := s.ScoreAll([]*domain.Stop{good, broken}, domain.Preferences{DurationDays: 1, POITypes: []string{"museum"}}, domain.Signals{})

	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarningMalformedStop, warnings[0].Kind)
	assert.Equal(t, domain.BaselineScore, broken.Score)
	assert.Greater(t, good.Score, domain.BaselineScore)
	assert.Equal(t, 1, logs.FilterField(zap.String("stop_id", "broken")).Len())
}

func TestScorerConfigValidate(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.Weights.Rating = -1
	_, err := NewScorer(cfg, nil)
	assert.Error(t, err)

	cfg = DefaultScorerConfig()
	cfg.SimilarityThreshold = 0
	_, err = NewScorer(cfg, nil)
	assert.Error(t, err)
}

func TestScoreMatchesTypesAndThemesSeparately(t *testing.T) {
	s := newTestScorer(t)
	prefs := domain.Preferences{DurationDays: 1, POITypes: []string{"museum"}, POIThemes: []string{"museum", "history"}}

	// a type that also names a theme counts once, against the type list
	typed := poi("m", "M", 0, 0, "museum")
	got, err := s.Score(typed, prefs, domain.Signals{})
	require.NoError(t, err)
	assert.InDelta(t, domain.BaselineScore+10*1, got, 1e-9)

	themed := poi("h", "H", 0, 0)
	themed.POI.Themes = []string{"History"}
	got, err = s.Score(themed, prefs, domain.Signals{})
	require.NoError(t, err)
	assert.InDelta(t, domain.BaselineScore+10*1, got, 1e-9)

	// plain category tags feed both lists
	tagged := poi("t", "T", 0, 0)
	tagged.Tags = []string{"museum"}
	got, err = s.Score(tagged, prefs, domain.Signals{})
	require.NoError(t, err)
	assert.InDelta(t, domain.BaselineScore+10*1+10*2, got, 1e-9)
}
