package domain

import "fmt"

// PoolConfig sizes the HTTP connection pool shared by every outgoing search
// service request. It is the one piece of process-wide mutable configuration:
// changes apply to requests issued after the change, never retroactively.
type PoolConfig struct {
	// MaxSessions caps concurrent connections to one host.
	MaxSessions int `json:"max_sessions"`

	// MaxPipeline caps requests queued per connection before a new
	// connection is opened.
	MaxPipeline int `json:"max_pipeline"`
}

// DefaultPoolConfig returns the pool sizing used until an operator overrides it
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxSessions: 100,
		MaxPipeline: 1,
	}
}

// Validate rejects sizings that would stall all requests.
func (c PoolConfig) Validate() error {
	if c.MaxSessions < 1 {
		return fmt.Errorf("%w: max_sessions must be >= 1", ErrInvalidInput)
	}
	if c.MaxPipeline < 1 {
		return fmt.Errorf("%w: max_pipeline must be >= 1", ErrInvalidInput)
	}
	return nil
}
