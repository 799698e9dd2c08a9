package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// ExchangeService coordinates anti-entropy exchanges
type ExchangeService interface {
	// Trigger enqueues an exchange for an index partition and returns the
	// queued task id. Fails with ErrExchangeInProgress when one is already
	// running for the same partition.
	Trigger(ctx context.Context, index string, partition int64) (string, error)

	// Run executes one exchange synchronously: drives the entropy pager to
	// exhaustion, folds every digest into a rollup and persists the record.
	// The worker calls this; tests can too.
	Run(ctx context.Context, id string, index string, partition int64) (*domain.Exchange, error)

	// Get retrieves one exchange record
	Get(ctx context.Context, id string) (*domain.Exchange, error)

	// List retrieves recent exchanges, optionally filtered by index
	List(ctx context.Context, index string, limit int) ([]*domain.Exchange, error)

	// Stats aggregates exchange counts by status
	Stats(ctx context.Context) (*domain.ExchangeStats, error)
}
