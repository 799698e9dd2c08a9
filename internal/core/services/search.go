package services

import (
	"context"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface
type searchService struct {
	client  driven.SolrClient
	planner driven.CoverPlanner
}

// NewSearchService creates a new SearchService
func NewSearchService(client driven.SolrClient, planner driven.CoverPlanner) driving.SearchService {
	return &searchService{
		client:  client,
		planner: planner,
	}
}

// Search runs a query against one core directly, no fan-out.
func (s *searchService) Search(ctx context.Context, index string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	return s.client.Search(ctx, index, opts.Params())
}

// DistSearch resolves the index's cover plan and runs one aggregated fan-out
// query. The distributed execution happens inside Solr; this issues a single
// request carrying the shard list and the per-node coverage filters.
func (s *searchService) DistSearch(ctx context.Context, index string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}

	// A planner failure aborts the fan-out before anything is sent.
	plan, err := s.planner.Plan(ctx, index)
	if err != nil {
		return nil, err
	}

	fanout, err := domain.BuildFanout(plan, index)
	if err != nil {
		return nil, err
	}

	params := opts.Params()
	params.Set("shards", fanout.Shards)
	for node, fq := range fanout.FilterQueries {
		params.Set(node+".fq", fq)
	}

	return s.client.Search(ctx, index, params)
}
