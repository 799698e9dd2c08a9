package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockExchangeStore implements ExchangeStore
var _ driven.ExchangeStore = (*MockExchangeStore)(nil)

// MockExchangeStore is an in-memory implementation of ExchangeStore for testing
type MockExchangeStore struct {
	mu        sync.RWMutex
	exchanges map[string]*domain.Exchange

	SaveErr error
}

// NewMockExchangeStore creates a new MockExchangeStore
func NewMockExchangeStore() *MockExchangeStore {
	return &MockExchangeStore{
		exchanges: make(map[string]*domain.Exchange),
	}
}

func (m *MockExchangeStore) Save(ctx context.Context, ex *domain.Exchange) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ex
	m.exchanges[ex.ID] = &cp
	return nil
}

func (m *MockExchangeStore) Get(ctx context.Context, id string) (*domain.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ex, ok := m.exchanges[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ex
	return &cp, nil
}

func (m *MockExchangeStore) List(ctx context.Context, index string, limit int) ([]*domain.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Exchange
	for _, ex := range m.exchanges {
		if index != "" && ex.Index != index {
			continue
		}
		cp := *ex
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockExchangeStore) Latest(ctx context.Context, index string, partition int64) (*domain.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *domain.Exchange
	for _, ex := range m.exchanges {
		if ex.Index != index || ex.Partition != partition {
			continue
		}
		if latest == nil || ex.StartedAt.After(latest.StartedAt) {
			latest = ex
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockExchangeStore) Stats(ctx context.Context) (*domain.ExchangeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &domain.ExchangeStats{}
	for _, ex := range m.exchanges {
		stats.Total++
		switch ex.Status {
		case domain.ExchangeStatusRunning:
			stats.Running++
		case domain.ExchangeStatusCompleted:
			stats.Completed++
		case domain.ExchangeStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (m *MockExchangeStore) Purge(ctx context.Context, olderThanDays int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	removed := 0
	for id, ex := range m.exchanges {
		if ex.Status == domain.ExchangeStatusRunning {
			continue
		}
		if ex.FinishedAt != nil && ex.FinishedAt.Before(cutoff) {
			delete(m.exchanges, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored exchanges (for test assertions)
func (m *MockExchangeStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exchanges)
}
