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

// SQLite backed signal cache. Rows past expires_at are treated as misses.
type SqliteSignalCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

var _ ports.SignalCache = (*SqliteSignalCache)(nil)

func NewSqliteSignalCache(db *sql.DB, ttl time.Duration) *SqliteSignalCache {
	return &SqliteSignalCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqliteSignalCache) Get(ctx context.Context, key string) (_ domain.Signals, err error) {
	defer obs.Time(ctx, "signals.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return domain.Signals{}, eris.New("signal cache: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Signals{}, eris.New("get signal cache: key must not be empty")
	}

	var payload string
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM signal_cache
	WHERE cache_key = ?
		AND expires_at > ?;
	`, key, s.now().Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Signals{}, ports.ErrCacheMiss
	}
	if err != nil {
		return domain.Signals{}, eris.Wrapf(err, "get signal cache: query key=%q", key)
	}

	return decodeSignals([]byte(payload))
}

func (s *SqliteSignalCache) Put(ctx context.Context, key string, sig domain.Signals) (err error) {
	defer obs.Time(ctx, "signals.cache.sqlite.Put")(&err)

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
	INSERT OR REPLACE INTO signal_cache (
		cache_key,
		payload,
		expires_at
	)
	VALUES (?, ?, ?);
	`, key, string(b), s.now().Add(s.TTL).Unix())
	if err != nil {
		return eris.Wrapf(err, "insert signal cache key=%q", key)
	}
	return nil
}
