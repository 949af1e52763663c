package signals

import (
	"context"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockProvider returns fixed signals, or Err when set, and counts calls.
type MockProvider struct {
	Signals domain.Signals
	Err     error

	mu    sync.Mutex
	calls int
}

var _ ports.SignalProvider = (*MockProvider)(nil)

func NewMockProvider(s domain.Signals) *MockProvider {
	return &MockProvider{Signals: s}
}

func (m *MockProvider) FetchSignals(ctx context.Context, req ports.SignalRequest) (domain.Signals, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return domain.Signals{}, m.Err
	}
	return m.Signals, nil
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
