package services

import (
	"trip-planner-service/internal/adapters/graph"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type EngineConfig struct {
	Seed   uint64
	Scorer ScorerConfig
	Route  RouteConfig
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Seed: 42, Scorer: DefaultScorerConfig(), Route: DefaultRouteConfig()}
}

// Engine runs the pure synthesis pipeline: score, cluster, select, route, refine.
type Engine struct {
	cfg     EngineConfig
	scorer  *Scorer
	builder *RouteBuilder
	refiner *PathRefiner
	logger  *zap.Logger
}

// NewEngine wires the pipeline. A nil newGraph uses the in-process graph.
func NewEngine(cfg EngineConfig, newGraph func() ports.Graph, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.L()
	}
	scorer, err := NewScorer(cfg.Scorer, logger)
	if err != nil {
		return nil, eris.Wrap(err, "new engine")
	}
	builder, err := NewRouteBuilder(cfg.Route, logger)
	if err != nil {
		return nil, eris.Wrap(err, "new engine")
	}
	if newGraph == nil {
		newGraph = graph.Factory
	}

	return &Engine{
		cfg:     cfg,
		scorer:  scorer,
		builder: builder,
		refiner: NewPathRefiner(newGraph, logger),
		logger:  logger.Named("engine"),
	}, nil
}

// Synthesize builds an itinerary from an already fetched pool. The pool is
// copied; the caller's stops are never modified.
func (e *Engine) Synthesize(pool *domain.CandidatePool, prefs domain.Preferences, signals domain.Signals) (*domain.Itinerary, error) {
	if err := prefs.Validate(); err != nil {
		return nil, eris.Wrap(err, "synthesize")
	}
	if pool == nil || len(pool.POIs) == 0 {
		return nil, eris.Wrap(domain.ErrNoPOICandidates, "synthesize")
	}
	pool = pool.Clone()

	warnings := e.scorer.ScoreAll(pool.All(), prefs, signals)

	pois := placeable(pool.POIs)
	if len(pois) == 0 {
		return nil, eris.Wrap(domain.ErrNoPOICandidates, "synthesize: every POI is malformed")
	}

	if err := ClusterByDay(pois, prefs.DurationDays, e.cfg.Seed); err != nil {
		return nil, eris.Wrap(err, "synthesize")
	}
	selected := SelectTopPointsByDay(pois, prefs.DurationDays, e.cfg.Route.MaxPOIsPerDay)

	route, err := e.builder.Build(selected, placeable(pool.Restaurants), placeable(pool.Hostings))
	if err != nil {
		return nil, eris.Wrap(err, "synthesize")
	}
	warnings = append(warnings, route.Warnings...)

	stops, refined, refineWarnings := e.refiner.Refine(route.Stops)
	warnings = append(warnings, refineWarnings...)

	it := &domain.Itinerary{Stops: stops, Warnings: warnings, Refined: refined}
	e.logger.Info("itinerary synthesized",
		zap.Int("days", it.Days()),
		zap.Int("stops", len(it.Stops)),
		zap.Int("warnings", len(warnings)),
		zap.Bool("refined", refined),
	)
	return it, nil
}

// placeable drops stops that cannot be put on a map.
func placeable(stops []*domain.Stop) []*domain.Stop {
	out := make([]*domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s != nil && s.ID != "" && s.Coordinates.Valid() {
			out = append(out, s)
		}
	}
	return out
}
