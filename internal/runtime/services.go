package runtime

import (
	"context"
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Services holds references to the optional backends a node can run without.
// A deployment with no Redis serves local search only; wiring a planner or a
// queue later upgrades the node in place. Capability flags follow the wiring.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic services (can be nil, updated at runtime)
	planner driven.CoverPlanner
	queue   driven.ExchangeQueue
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// Planner returns the current cover plan oracle (may be nil)
func (s *Services) Planner() driven.CoverPlanner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planner
}

// Queue returns the current exchange queue (may be nil)
func (s *Services) Queue() driven.ExchangeQueue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue
}

// SetPlanner updates the cover plan oracle and the capability flag.
func (s *Services) SetPlanner(planner driven.CoverPlanner) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.planner = planner
	s.config.SetDistSearchAvailable(planner != nil)
}

// SetQueue updates the exchange queue.
// Closes the old queue if present. Updates the capability flag.
func (s *Services) SetQueue(queue driven.ExchangeQueue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Close old queue
	if s.queue != nil {
		_ = s.queue.Close()
	}

	s.queue = queue
	s.config.SetExchangesAvailable(queue != nil)
}

// Close drops all optional services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.planner = nil
	if s.queue != nil {
		_ = s.queue.Close()
		s.queue = nil
	}

	s.config.SetDistSearchAvailable(false)
	s.config.SetExchangesAvailable(false)

	return nil
}

// ValidateAndSetPlanner pings the backend before wiring it
func (s *Services) ValidateAndSetPlanner(ctx context.Context, planner driven.CoverPlanner) error {
	if planner == nil {
		s.SetPlanner(nil)
		return nil
	}

	// Validate connectivity
	if err := planner.Ping(ctx); err != nil {
		return err
	}

	s.SetPlanner(planner)
	return nil
}

// ValidateAndSetQueue pings the backend before wiring it
func (s *Services) ValidateAndSetQueue(ctx context.Context, queue driven.ExchangeQueue) error {
	if queue == nil {
		s.SetQueue(nil)
		return nil
	}

	// Validate connectivity
	if err := queue.Ping(ctx); err != nil {
		_ = queue.Close()
		return err
	}

	s.SetQueue(queue)
	return nil
}
