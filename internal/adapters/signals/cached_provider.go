package signals

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"go.uber.org/zap"
)

// CachedProvider serves signals from a cache and fills it from next on miss.
// Cache failures are logged and bypassed.
type CachedProvider struct {
	next   ports.SignalProvider
	cache  ports.SignalCache
	logger *zap.Logger
}

var _ ports.SignalProvider = (*CachedProvider)(nil)

func NewCachedProvider(next ports.SignalProvider, cache ports.SignalCache, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.L()
	}
	return &CachedProvider{next: next, cache: cache, logger: logger.Named("signals_cache")}
}

func (c *CachedProvider) FetchSignals(ctx context.Context, req ports.SignalRequest) (domain.Signals, error) {
	key := req.Key()

	s, err := c.cache.Get(ctx, key)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		c.logger.Warn("signal cache read failed", zap.String("key", key), zap.Error(err))
	}

	s, err = c.next.FetchSignals(ctx, req)
	if err != nil {
		return domain.Signals{}, err
	}

	if err := c.cache.Put(ctx, key, s); err != nil {
		c.logger.Warn("signal cache write failed", zap.String("key", key), zap.Error(err))
	}
	return s, nil
}
