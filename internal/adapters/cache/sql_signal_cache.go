package cache

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
)

// SQLSignalCache is a Postgres-backed signal cache.
type SQLSignalCache struct {
	DB  *sql.DB
	TTL time.Duration
}

var _ ports.SignalCache = (*SQLSignalCache)(nil)

func NewSQLSignalCache(db *sql.DB, ttl time.Duration) *SQLSignalCache {
	return &SQLSignalCache{DB: db, TTL: ttl}
}

func (s *SQLSignalCache) Get(ctx context.Context, key string) (_ domain.Signals, err error) {
	defer obs.Time(ctx, "signals.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.Signals{}, eris.New("signal cache: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Signals{}, eris.New("get signal cache: key must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM signal_cache
	WHERE cache_key = $1
		AND expires_at > now();
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Signals{}, ports.ErrCacheMiss
	}
	if err != nil {
		return domain.Signals{}, eris.Wrapf(err, "get signal cache: query key=%q", key)
	}

	return decodeSignals(payload)
}

func (s *SQLSignalCache) Put(ctx context.Context, key string, sig domain.Signals) (err error) {
	defer obs.Time(ctx, "signals.cache.sql.Put")(&err)

	if s.DB == nil {
		return eris.New("signal cache: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return eris.New("insert signal cache: key must not be empty")
	}

	b, err := encodeSignals(sig)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO signal_cache (cache_key, payload, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, key, b, time.Now().Add(s.TTL))
	if err != nil {
		return eris.Wrapf(err, "insert signal cache key=%q", key)
	}
	return nil
}
