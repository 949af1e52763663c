package ports

import (
	"context"
	"errors"
	"strconv"
	"time"
	"trip-planner-service/internal/domain"
)

var ErrCacheMiss = errors.New("signal cache miss")

// SignalRequest identifies the trip window signals are fetched for.
type SignalRequest struct {
	Zone  string
	Start time.Time
	Days  int
}

// Key is the cache key for the request.
func (r SignalRequest) Key() string {
	return r.Zone + "|" + r.Start.UTC().Format("2006-01-02") + "|" + strconv.Itoa(r.Days)
}

// SignalProvider supplies weather favorability and popularity lists.
type SignalProvider interface {
	FetchSignals(ctx context.Context, req SignalRequest) (domain.Signals, error)
}

// SignalCache stores signals by request key. Get returns ErrCacheMiss when absent.
type SignalCache interface {
	Get(ctx context.Context, key string) (domain.Signals, error)
	Put(ctx context.Context, key string, s domain.Signals) error
}
