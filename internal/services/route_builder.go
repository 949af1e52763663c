package services

import (
	"fmt"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type RouteConfig struct {
	MaxPOIsPerDay int
	Search        SearchConfig
}

func DefaultRouteConfig() RouteConfig {
	return RouteConfig{MaxPOIsPerDay: DefaultMaxPOIsPerDay, Search: DefaultSearchConfig()}
}

// Route is the builder's ordered output: every stop carries (day, rank).
type Route struct {
	Stops    []*domain.Stop
	Warnings []domain.Warning
}

// RouteBuilder turns clustered POIs plus restaurant and lodging candidates
// into a day-by-day visit order.
type RouteBuilder struct {
	cfg    RouteConfig
	logger *zap.Logger
}

func NewRouteBuilder(cfg RouteConfig, logger *zap.Logger) (*RouteBuilder, error) {
	if err := cfg.Search.Validate(); err != nil {
		return nil, eris.Wrap(err, "new route builder")
	}
	if cfg.MaxPOIsPerDay < 1 {
		return nil, eris.Errorf("new route builder: max POIs per day must be at least 1, got %d", cfg.MaxPOIsPerDay)
	}
	if logger == nil {
		logger = zap.L()
	}
	return &RouteBuilder{cfg: cfg, logger: logger.Named("route_builder")}, nil
}

// Build orders the selected POIs greedily: it starts from the best POI,
// visits the nearest unvisited POI of the same cluster until the cluster is
// exhausted, then sleeps and jumps to the nearest POI left anywhere.
//
// A day with n POIs gets lunch after POI ceil(n/2); every day but the last
// ends with dinner and a lodging. A one-POI day that is not the last skips
// lunch. Meals and lodgings come from FindBestNear; when nothing qualifies
// a warning is recorded for that day and the day continues.
//
// Build sets Day and Rank on the stops it places.
func (b *RouteBuilder) Build(pois, restaurants, hostings []*domain.Stop) (*Route, error) {
	if len(pois) == 0 {
		return nil, eris.Wrap(domain.ErrNoPOICandidates, "build route")
	}

	remaining := make(map[string]*domain.Stop, len(pois))
	for _, p := range pois {
		if _, dup := remaining[p.ID]; dup {
			return nil, eris.Errorf("build route: duplicate POI id %q", p.ID)
		}
		remaining[p.ID] = p
	}
	used := make(map[string]struct{})

	route := &Route{Stops: make([]*domain.Stop, 0, len(pois)*2)}
	day := 1
	current := bestPOI(pois)

	for current != nil {
		cluster := current.Cluster
		n := countInCluster(remaining, cluster)
		last := len(remaining) == n

		lunchAfter := (n + 1) / 2
		if n == 1 && !last {
			lunchAfter = 0
		}

		rank := 0
		place := func(s *domain.Stop) {
			rank++
			s.Day = day
			s.Rank = rank
			route.Stops = append(route.Stops, s)
		}

		pos := current.Coordinates
		visited := 0
		for next := current; next != nil; next = nearestPOI(remaining, pos, cluster, true) {
			place(next)
			delete(remaining, next.ID)
			visited++
			pos = next.Coordinates

			if visited == lunchAfter {
				if r := b.pick(day, "lunch", pos, restaurants, used, domain.WarningMissingLunch, route); r != nil {
					place(r)
					pos = r.Coordinates
				}
			}
		}

		if last {
			break
		}

		if r := b.pick(day, "dinner", pos, restaurants, used, domain.WarningMissingDinner, route); r != nil {
			place(r)
			pos = r.Coordinates
		}
		if h := b.pick(day, "lodging", pos, hostings, used, domain.WarningMissingLodging, route); h != nil {
			place(h)
			pos = h.Coordinates
		}

		day++
		current = nearestPOI(remaining, pos, 0, false)
	}

	return route, nil
}

func (b *RouteBuilder) pick(
	day int,
	what string,
	anchor domain.Coordinates,
	candidates []*domain.Stop,
	used map[string]struct{},
	warn domain.WarningKind,
	route *Route,
) *domain.Stop {
	res, ok := FindBestNear(b.cfg.Search, []domain.Coordinates{anchor}, candidates, used)
	if !ok {
		b.logger.Warn("no candidate in search radius",
			zap.Int("day", day), zap.String("need", what), zap.Float64("radius_m", res.Radius))
		route.Warnings = append(route.Warnings, domain.Warning{
			Day:     day,
			Kind:    warn,
			Message: fmt.Sprintf("no %s candidate within %.0f m", what, res.Radius),
		})
		return nil
	}
	used[res.Stop.ID] = struct{}{}
	return res.Stop
}

// bestPOI is the highest-scoring POI, ties going to the smaller id.
func bestPOI(pois []*domain.Stop) *domain.Stop {
	var best *domain.Stop
	for _, p := range pois {
		if best == nil || p.Score > best.Score || (p.Score == best.Score && p.ID < best.ID) {
			best = p
		}
	}
	return best
}

func countInCluster(remaining map[string]*domain.Stop, cluster int) int {
	n := 0
	for _, p := range remaining {
		if p.Cluster == cluster {
			n++
		}
	}
	return n
}

// nearestPOI returns the remaining POI closest to pos, restricted to
// cluster when sameCluster is set. Equal distances go to the smaller id.
func nearestPOI(remaining map[string]*domain.Stop, pos domain.Coordinates, cluster int, sameCluster bool) *domain.Stop {
	var best *domain.Stop
	bestD := 0.0
	for _, p := range remaining {
		if sameCluster && p.Cluster != cluster {
			continue
		}
		d := pos.DistanceMeters(p.Coordinates)
		if best == nil || d < bestD || (d == bestD && p.ID < best.ID) {
			best, bestD = p, d
		}
	}
	return best
}
