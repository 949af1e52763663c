package signals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu     sync.Mutex
	m      map[string]domain.Signals
	getErr error
}

func (c *memoryCache) Get(_ context.Context, key string) (domain.Signals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.Signals{}, c.getErr
	}
	s, ok := c.m[key]
	if !ok {
		return domain.Signals{}, ports.ErrCacheMiss
	}
	return s, nil
}

func (c *memoryCache) Put(_ context.Context, key string, s domain.Signals) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = s
	return nil
}

func TestCachedProviderServesFromCache(t *testing.T) {
	mock := NewMockProvider(domain.Signals{WeatherFavorable: true, PopularPOIs: []string{"x"}})
	cache := &memoryCache{m: map[string]domain.Signals{}}
	p := NewCachedProvider(mock, cache, zap.NewNop())

	req := ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 2}
	first, err := p.FetchSignals(context.Background(), req)
	require.NoError(t, err)
	second, err := p.FetchSignals(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.Calls())
	assert.Contains(t, cache.m, "33000|2026-06-01|2")
}

func TestCachedProviderBypassesBrokenCache(t *testing.T) {
	mock := NewMockProvider(domain.Signals{WeatherFavorable: false})
	cache := &memoryCache{m: map[string]domain.Signals{}, getErr: errors.New("down")}
	p := NewCachedProvider(mock, cache, zap.NewNop())

	s, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	require.NoError(t, err)
	assert.False(t, s.WeatherFavorable)
	assert.Equal(t, 1, mock.Calls())
}

func TestCachedProviderPropagatesUpstreamError(t *testing.T) {
	mock := &MockProvider{Err: errors.New("upstream")}
	p := NewCachedProvider(mock, &memoryCache{m: map[string]domain.Signals{}}, zap.NewNop())

	_, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	assert.Error(t, err)
}
