package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var sample = domain.Signals{
	WeatherFavorable:   false,
	PopularPOIs:        []string{"la cité du vin", "miroir d'eau"},
	PopularRestaurants: []string{"le petit commerce"},
}

func TestRedisSignalCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisSignalCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "33000|2026-06-01|3")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Put(ctx, "33000|2026-06-01|3", sample))
	got, err := c.Get(ctx, "33000|2026-06-01|3")
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	mr.FastForward(2 * time.Hour)
	_, err = c.Get(ctx, "33000|2026-06-01|3")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestNewRedisSignalCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisSignalCache("not a url", time.Minute)
	assert.Error(t, err)
}

func TestSqliteSignalCacheRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, repositories.InitSchema(db, repositories.DialectSQLite))

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewSqliteSignalCache(db, time.Hour)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Put(ctx, "k", sample))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	now = now.Add(2 * time.Hour)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	assert.Error(t, c.Put(ctx, "  ", sample))
}
