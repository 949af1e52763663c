package services

import (
	"context"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Initial repository radius per transport mode.
type PlannerConfig struct {
	WalkingRadiusKm float64
	DrivingRadiusKm float64
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{WalkingRadiusKm: 5, DrivingRadiusKm: 100}
}

// Planner fetches candidates and signals, then hands them to the Engine.
type Planner struct {
	repo    ports.CandidateRepository
	signals ports.SignalProvider
	engine  *Engine
	cfg     PlannerConfig
	logger  *zap.Logger
}

func NewPlanner(
	repo ports.CandidateRepository,
	signals ports.SignalProvider,
	engine *Engine,
	cfg PlannerConfig,
	logger *zap.Logger,
) *Planner {
	if logger == nil {
		logger = zap.L()
	}
	return &Planner{repo: repo, signals: signals, engine: engine, cfg: cfg, logger: logger.Named("planner")}
}

// PlanTrip fetches the candidate pool and the signals concurrently. A
// signal failure degrades to neutral signals with a warning; a candidate
// failure is fatal, and so is both failing.
func (p *Planner) PlanTrip(ctx context.Context, prefs domain.Preferences) (*domain.Itinerary, error) {
	prefs = prefs.WithDefaults()
	if err := prefs.Validate(); err != nil {
		return nil, eris.Wrap(err, "plan trip")
	}

	var (
		pool    *domain.CandidatePool
		signals domain.Signals
		sigErr  error
		g       errgroup.Group
	)

	g.Go(func() (err error) {
		defer obs.Time(ctx, "fetch_candidates")(&err)
		pool, err = p.repo.FetchCandidates(ctx, ports.CandidateQuery{
			Zone:     prefs.Zone,
			RadiusKm: p.radiusFor(prefs.Transport),
			Days:     prefs.DurationDays,
		})
		return err
	})

	g.Go(func() error {
		defer obs.Time(ctx, "fetch_signals")(&sigErr)
		signals, sigErr = p.signals.FetchSignals(ctx, ports.SignalRequest{
			Zone:  prefs.Zone,
			Start: prefs.StartDate,
			Days:  prefs.DurationDays,
		})
		return nil
	})

	poolErr := g.Wait()
	if poolErr != nil && sigErr != nil {
		return nil, eris.Wrapf(domain.ErrCollaboratorsUnavailable, "plan trip: candidates: %v; signals: %v", poolErr, sigErr)
	}
	if poolErr != nil {
		return nil, eris.Wrap(poolErr, "plan trip: fetch candidates")
	}

	var degraded []domain.Warning
	if sigErr != nil {
		p.logger.Warn("signals unavailable, using neutral signals", zap.String("zone", prefs.Zone), zap.Error(sigErr))
		signals = domain.NeutralSignals()
		degraded = append(degraded, domain.Warning{Kind: domain.WarningSignalsDegraded, Message: sigErr.Error()})
	}

	it, err := p.engine.Synthesize(pool, prefs, signals)
	if err != nil {
		return nil, eris.Wrap(err, "plan trip")
	}
	it.Warnings = append(degraded, it.Warnings...)
	return it, nil
}

// Candidates lists the pool around a zone without planning.
func (p *Planner) Candidates(ctx context.Context, q ports.CandidateQuery) (pool *domain.CandidatePool, err error) {
	defer obs.Time(ctx, "list_candidates")(&err)
	pool, err = p.repo.FetchCandidates(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "list candidates")
	}
	return pool, nil
}

func (p *Planner) radiusFor(t domain.Transport) float64 {
	if t == domain.TransportByFoot {
		return p.cfg.WalkingRadiusKm
	}
	return p.cfg.DrivingRadiusKm
}
