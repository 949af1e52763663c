// Package app is the composition root shared by the server and dbtool binaries.
package app

import (
	"database/sql"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/graph"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/signals"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Store is the opened candidate database together with its SQL dialect.
type Store struct {
	DB      *sql.DB
	Dialect repositories.Dialect
}

func OpenStore(cfg config.StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{DB: conn, Dialect: repositories.DialectPostgres}, nil
	case "sqlite":
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{DB: conn, Dialect: repositories.DialectSQLite}, nil
	default:
		return nil, eris.Errorf("open store: unknown driver %q", cfg.Driver)
	}
}

func (s *Store) Migrate() error {
	return repositories.InitSchema(s.DB, s.Dialect)
}

func (s *Store) Seed(path string) error {
	return repositories.SeedFromFile(s.DB, s.Dialect, path)
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) candidateRepository(widen repositories.WidenConfig) *repositories.SQLCandidateRepository {
	if s.Dialect == repositories.DialectPostgres {
		return repositories.NewPostgresCandidateRepository(s.DB, widen)
	}
	return repositories.NewSqliteCandidateRepository(s.DB, widen)
}

// NewSignalProvider returns the cached signal provider. Without a places API
// key the live provider is replaced by neutral signals. The returned closer
// releases the Redis client, if one was opened.
func NewSignalProvider(cfg *config.Config, store *Store, logger *zap.Logger) (ports.SignalProvider, func() error, error) {
	var live ports.SignalProvider
	if cfg.Signals.PlacesAPIKey == "" {
		logger.Warn("places api key not set, using neutral signals")
		live = signals.NewMockProvider(domain.NeutralSignals())
	} else {
		p, err := signals.NewHTTPProvider(cfg.Signals.HTTP(), logger)
		if err != nil {
			return nil, nil, eris.Wrap(err, "new signal provider")
		}
		live = p
	}

	closer := func() error { return nil }
	var c ports.SignalCache
	switch {
	case cfg.Redis.URL != "":
		rc, err := cache.NewRedisSignalCache(cfg.Redis.URL, cfg.Redis.TTL())
		if err != nil {
			return nil, nil, eris.Wrap(err, "new signal provider")
		}
		c, closer = rc, rc.Close
	case store.Dialect == repositories.DialectPostgres:
		c = cache.NewSQLSignalCache(store.DB, cfg.Redis.TTL())
	default:
		c = cache.NewSqliteSignalCache(store.DB, cfg.Redis.TTL())
	}

	return signals.NewCachedProvider(live, c, logger), closer, nil
}

// NewPlanner wires repository, signals and engine into a Planner.
func NewPlanner(cfg *config.Config, store *Store, logger *zap.Logger) (*services.Planner, func() error, error) {
	if logger == nil {
		logger = zap.L()
	}

	provider, closer, err := NewSignalProvider(cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}

	engine, err := services.NewEngine(cfg.Planner.Engine(), graph.Factory, logger)
	if err != nil {
		_ = closer()
		return nil, nil, eris.Wrap(err, "new planner")
	}

	repo := store.candidateRepository(cfg.Repository.Widen())
	return services.NewPlanner(repo, provider, engine, cfg.Planner.Radii(), logger), closer, nil
}
