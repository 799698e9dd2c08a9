package domain

import "sync"

// RuntimeConfig tracks which optional subsystems are available at runtime.
// The plan backend is fixed at startup; the capability flags follow the
// wired services and can change when an operator swaps them.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	PlanBackend string // "redis" or "none"

	// Dynamic capability flags (updated when services are wired or dropped)
	distSearchAvailable bool
	exchangesAvailable  bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(planBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		PlanBackend: planBackend,
	}
}

// DistSearchAvailable returns whether a cover plan oracle is wired
func (c *RuntimeConfig) DistSearchAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.distSearchAvailable
}

// ExchangesAvailable returns whether an exchange queue is wired
func (c *RuntimeConfig) ExchangesAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exchangesAvailable
}

// SetDistSearchAvailable updates the distributed search flag
func (c *RuntimeConfig) SetDistSearchAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distSearchAvailable = available
}

// SetExchangesAvailable updates the exchange flag
func (c *RuntimeConfig) SetExchangesAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exchangesAvailable = available
}

// CanDistSearch returns true if cluster-wide queries can be served
func (c *RuntimeConfig) CanDistSearch() bool {
	return c.DistSearchAvailable()
}

// CanExchange returns true if entropy exchanges can be triggered
func (c *RuntimeConfig) CanExchange() bool {
	return c.ExchangesAvailable()
}
