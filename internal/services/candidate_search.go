package services

import (
	"math"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
)

// Expanding-radius search knobs, in meters.
type SearchConfig struct {
	InitialRadius float64
	Step          float64
	MaxRadius     float64
	MinCandidates int
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		InitialRadius: 200,
		Step:          100,
		MaxRadius:     20000,
		MinCandidates: 3,
	}
}

func (c SearchConfig) Validate() error {
	if c.InitialRadius <= 0 {
		return eris.Errorf("search config: initial radius must be positive, got %v", c.InitialRadius)
	}
	if c.Step <= 0 {
		return eris.Errorf("search config: step must be positive, got %v", c.Step)
	}
	if c.MaxRadius < c.InitialRadius {
		return eris.Errorf("search config: max radius %v below initial radius %v", c.MaxRadius, c.InitialRadius)
	}
	if c.MinCandidates < 1 {
		return eris.Errorf("search config: min candidates must be at least 1, got %d", c.MinCandidates)
	}
	return nil
}

// SearchResult reports the chosen candidate and the radius the search stopped at.
type SearchResult struct {
	Stop     *domain.Stop
	Radius   float64
	Distance float64
}

// FindBestNear grows a radius around the anchors from InitialRadius by Step
// until at least MinCandidates eligible candidates lie within it of every
// anchor, or MaxRadius is reached. It then returns the highest-scoring
// candidate inside the final radius, ties going to the nearest.
//
// Candidates whose id is in exclude are never returned. The search does
// not mutate its inputs, so repeating it yields the same result.
func FindBestNear(
	cfg SearchConfig,
	anchors []domain.Coordinates,
	candidates []*domain.Stop,
	exclude map[string]struct{},
) (SearchResult, bool) {
	if len(anchors) == 0 || len(candidates) == 0 {
		return SearchResult{Radius: cfg.MaxRadius}, false
	}

	type eligible struct {
		stop *domain.Stop
		dist float64
	}
	pool := make([]eligible, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		pool = append(pool, eligible{stop: c, dist: farthestAnchor(c.Coordinates, anchors)})
	}

	within := func(radius float64) int {
		n := 0
		for _, e := range pool {
			if e.dist <= radius {
				n++
			}
		}
		return n
	}

	radius := cfg.InitialRadius
	for within(radius) < cfg.MinCandidates && radius < cfg.MaxRadius {
		radius = math.Min(radius+cfg.Step, cfg.MaxRadius)
	}

	var best *eligible
	for i := range pool {
		e := &pool[i]
		if e.dist > radius {
			continue
		}
		if best == nil || betterCandidate(e.stop, e.dist, best.stop, best.dist) {
			best = e
		}
	}
	if best == nil {
		return SearchResult{Radius: radius}, false
	}
	return SearchResult{Stop: best.stop, Radius: radius, Distance: best.dist}, true
}

func betterCandidate(s *domain.Stop, d float64, cur *domain.Stop, curD float64) bool {
	if s.Score != cur.Score {
		return s.Score > cur.Score
	}
	if d != curD {
		return d < curD
	}
	return s.ID < cur.ID
}

// farthestAnchor is the distance from c to the anchor furthest away, so a
// candidate is within a radius only if it is within it of all anchors.
func farthestAnchor(c domain.Coordinates, anchors []domain.Coordinates) float64 {
	d := 0.0
	for _, a := range anchors {
		d = math.Max(d, c.DistanceMeters(a))
	}
	return d
}
