package mocks

import (
	"context"
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockOperatorStore implements OperatorStore
var _ driven.OperatorStore = (*MockOperatorStore)(nil)

// MockOperatorStore is an in-memory implementation of OperatorStore for testing
type MockOperatorStore struct {
	mu        sync.RWMutex
	operators map[string]*domain.Operator
}

// NewMockOperatorStore creates a new MockOperatorStore
func NewMockOperatorStore() *MockOperatorStore {
	return &MockOperatorStore{
		operators: make(map[string]*domain.Operator),
	}
}

func (m *MockOperatorStore) Save(ctx context.Context, op *domain.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *op
	m.operators[op.ID] = &cp
	return nil
}

func (m *MockOperatorStore) Get(ctx context.Context, id string) (*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	op, ok := m.operators[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *op
	return &cp, nil
}

func (m *MockOperatorStore) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, op := range m.operators {
		if op.Name == name {
			cp := *op
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockOperatorStore) List(ctx context.Context) ([]*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Operator, 0, len(m.operators))
	for _, op := range m.operators {
		cp := *op
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockOperatorStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operators, id)
	return nil
}
