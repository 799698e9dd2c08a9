package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// SearchService handles index queries
type SearchService interface {
	// Search runs a query against one core directly, no fan-out.
	Search(ctx context.Context, index string, opts domain.SearchOptions) (*domain.SearchResult, error)

	// DistSearch resolves the index's cover plan and runs one aggregated
	// fan-out query across the plan's shards.
	DistSearch(ctx context.Context, index string, opts domain.SearchOptions) (*domain.SearchResult, error)
}
