package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offset returns coordinates roughly meters east of origin at Bordeaux latitude.
func offset(meters float64) domain.Coordinates {
	origin := domain.Coordinates{Lon: -0.5700, Lat: 44.8400}
	// one degree of longitude is about 78.9 km at this latitude
	return domain.Coordinates{Lon: origin.Lon + meters/78900, Lat: origin.Lat}
}

func restaurant(id string, score float64, meters float64) *domain.Stop {
	r := domain.NewStop(id, id, domain.KindRestaurant, offset(meters))
	r.Score = score
	return r
}

func TestFindBestNearPrefersScoreWithinRadius(t *testing.T) {
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{
		restaurant("near-low", 1, 50),
		restaurant("mid", 5, 150),
		restaurant("near-high", 9, 180),
		restaurant("far-best", 50, 5000),
	}

	res, ok := FindBestNear(DefaultSearchConfig(), anchor, candidates, nil)
	require.True(t, ok)
	assert.Equal(t, "near-high", res.Stop.ID)
	assert.Equal(t, 200.0, res.Radius)
}

func TestFindBestNearExpandsUntilEnoughCandidates(t *testing.T) {
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{
		restaurant("a", 1, 100),
		restaurant("b", 2, 700),
		restaurant("c", 3, 1400),
		restaurant("d", 10, 3000),
	}

	res, ok := FindBestNear(DefaultSearchConfig(), anchor, candidates, nil)
	require.True(t, ok)
	assert.Equal(t, "c", res.Stop.ID)
	assert.GreaterOrEqual(t, res.Radius, 1400.0)
	assert.Less(t, res.Radius, 3000.0)
}

func TestFindBestNearTieGoesToNearest(t *testing.T) {
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{
		restaurant("far", 4, 150),
		restaurant("near", 4, 20),
		restaurant("other", 1, 90),
	}

	res, ok := FindBestNear(DefaultSearchConfig(), anchor, candidates, nil)
	require.True(t, ok)
	assert.Equal(t, "near", res.Stop.ID)
}

func TestFindBestNearStopsAtMaxRadius(t *testing.T) {
	cfg := DefaultSearchConfig()
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{restaurant("too-far", 10, 30000)}

	res, ok := FindBestNear(cfg, anchor, candidates, nil)
	assert.False(t, ok)
	assert.Equal(t, cfg.MaxRadius, res.Radius)

	res, ok = FindBestNear(cfg, anchor, nil, nil)
	assert.False(t, ok)
	assert.Nil(t, res.Stop)
}

func TestFindBestNearSkipsExcluded(t *testing.T) {
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{
		restaurant("best", 9, 50),
		restaurant("second", 5, 60),
	}

	res, ok := FindBestNear(DefaultSearchConfig(), anchor, candidates, map[string]struct{}{"best": {}})
	require.True(t, ok)
	assert.Equal(t, "second", res.Stop.ID)
}

func TestFindBestNearIsIdempotent(t *testing.T) {
	anchor := []domain.Coordinates{offset(0)}
	candidates := []*domain.Stop{
		restaurant("a", 3, 400),
		restaurant("b", 3, 350),
		restaurant("c", 1, 120),
	}

	first, ok1 := FindBestNear(DefaultSearchConfig(), anchor, candidates, nil)
	second, ok2 := FindBestNear(DefaultSearchConfig(), anchor, candidates, nil)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Len(t, candidates, 3)
}

func TestFindBestNearRequiresAllAnchors(t *testing.T) {
	anchors := []domain.Coordinates{offset(0), offset(1000)}
	candidates := []*domain.Stop{
		restaurant("by-first", 9, 10),
		restaurant("between", 2, 500),
	}
	cfg := DefaultSearchConfig()
	cfg.MinCandidates = 1

	res, ok := FindBestNear(cfg, anchors, candidates, nil)
	require.True(t, ok)
	assert.Equal(t, "between", res.Stop.ID)
}

func TestSearchConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultSearchConfig().Validate())

	bad := DefaultSearchConfig()
	bad.Step = 0
	assert.Error(t, bad.Validate())

	bad = DefaultSearchConfig()
	bad.MaxRadius = 10
	assert.Error(t, bad.Validate())
}

func TestFindBestNearReportsMaxRadiusWhenNothingEligible(t *testing.T) {
	cfg := DefaultSearchConfig()
	anchor := []domain.Coordinates{offset(0)}

	res, ok := FindBestNear(cfg, anchor, nil, nil)
	assert.False(t, ok)
	assert.Equal(t, cfg.MaxRadius, res.Radius)

	only := restaurant("r1", 1, 50)
	res, ok = FindBestNear(cfg, anchor, []*domain.Stop{only}, map[string]struct{}{"r1": {}})
	assert.False(t, ok)
	assert.Equal(t, cfg.MaxRadius, res.Radius)
}
