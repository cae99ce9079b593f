package directions

import (
	"context"
	"sync"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"
)

// MockDirectionsProvider returns a canned result and records every call.
type MockDirectionsProvider struct {
	Result *ports.DirectionsResult
	Err    error

	mu    sync.Mutex
	calls [][]domain.Coordinates
	profs []ports.Profile
}

func NewMockDirectionsProvider(result *ports.DirectionsResult, err error) *MockDirectionsProvider {
	return &MockDirectionsProvider{Result: result, Err: err}
}

func (m *MockDirectionsProvider) GetRoute(ctx context.Context, coordinates []domain.Coordinates, profile ports.Profile) (*ports.DirectionsResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]domain.Coordinates(nil), coordinates...))
	m.profs = append(m.profs, profile)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// Calls returns the coordinates of every call in order.
func (m *MockDirectionsProvider) Calls() [][]domain.Coordinates {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Coordinates(nil), m.calls...)
}

// Profiles returns the profile of every call in order.
func (m *MockDirectionsProvider) Profiles() []ports.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Profile(nil), m.profs...)
}
