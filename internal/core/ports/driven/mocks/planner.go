package mocks

import (
	"context"
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockPlanner implements CoverPlanner
var _ driven.CoverPlanner = (*MockPlanner)(nil)

// MockPlanner is a mock implementation of CoverPlanner for testing
type MockPlanner struct {
	mu    sync.RWMutex
	plans map[string]*domain.CoverPlan

	// PlanErr overrides every Plan call when set
	PlanErr error
	PingErr error
}

// NewMockPlanner creates a new MockPlanner
func NewMockPlanner() *MockPlanner {
	return &MockPlanner{
		plans: make(map[string]*domain.CoverPlan),
	}
}

func (m *MockPlanner) Plan(ctx context.Context, index string) (*domain.CoverPlan, error) {
	if m.PlanErr != nil {
		return nil, m.PlanErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[index]
	if !ok {
		return nil, domain.ErrPlanUnavailable
	}
	return plan, nil
}

func (m *MockPlanner) PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[index] = plan
	return nil
}

func (m *MockPlanner) DeletePlan(ctx context.Context, index string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, index)
	return nil
}

func (m *MockPlanner) Ping(ctx context.Context) error {
	return m.PingErr
}
