package driven

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// ExchangeStore handles exchange record persistence (PostgreSQL)
type ExchangeStore interface {
	// Save creates or updates an exchange record
	Save(ctx context.Context, ex *domain.Exchange) error

	// Get retrieves an exchange by ID
	Get(ctx context.Context, id string) (*domain.Exchange, error)

	// List retrieves exchanges filtered by index, newest first.
	// An empty index means all indexes.
	List(ctx context.Context, index string, limit int) ([]*domain.Exchange, error)

	// Latest retrieves the most recent exchange for an index partition
	Latest(ctx context.Context, index string, partition int64) (*domain.Exchange, error)

	// Stats aggregates exchange counts by status
	Stats(ctx context.Context) (*domain.ExchangeStats, error)

	// Purge removes finished exchanges older than the given number of days.
	// Returns the number of records removed.
	Purge(ctx context.Context, olderThanDays int) (int, error)
}
