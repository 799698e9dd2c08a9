package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockExchangeQueue implements ExchangeQueue
var _ driven.ExchangeQueue = (*MockExchangeQueue)(nil)

// MockExchangeQueue is a channel-backed implementation of ExchangeQueue for
// testing. Acked and nacked task ids are recorded for assertions.
type MockExchangeQueue struct {
	mu     sync.Mutex
	tasks  chan *driven.ExchangeTask
	Acked  []string
	Nacked []string

	EnqueueErr error
	PingErr    error
}

// NewMockExchangeQueue creates a new MockExchangeQueue
func NewMockExchangeQueue() *MockExchangeQueue {
	return &MockExchangeQueue{
		tasks: make(chan *driven.ExchangeTask, 64),
	}
}

func (m *MockExchangeQueue) Enqueue(ctx context.Context, task *driven.ExchangeTask) error {
	if m.EnqueueErr != nil {
		return m.EnqueueErr
	}
	select {
	case m.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockExchangeQueue) DequeueWithTimeout(ctx context.Context, timeout time.Duration) (*driven.ExchangeTask, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case task := <-m.tasks:
		return task, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *MockExchangeQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Acked = append(m.Acked, taskID)
	return nil
}

func (m *MockExchangeQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Nacked = append(m.Nacked, taskID)
	return nil
}

func (m *MockExchangeQueue) Pending(ctx context.Context) (int64, error) {
	return int64(len(m.tasks)), nil
}

func (m *MockExchangeQueue) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockExchangeQueue) Close() error {
	return nil
}

// AckedIDs returns a copy of the acked task ids (for test assertions)
func (m *MockExchangeQueue) AckedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Acked...)
}
