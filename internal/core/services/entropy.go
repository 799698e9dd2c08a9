package services

import (
	"context"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Ensure entropyService implements EntropyService
var _ driving.EntropyService = (*entropyService)(nil)

// entropyService implements the EntropyService interface. Each Page call is
// one request; looping over continuations belongs to the caller, so a failed
// call costs the caller nothing but its own retained token.
type entropyService struct {
	client driven.SolrClient
}

// NewEntropyService creates a new EntropyService
func NewEntropyService(client driven.SolrClient) driving.EntropyService {
	return &entropyService{client: client}
}

// Page fetches one page of (key, digest) pairs.
func (s *entropyService) Page(ctx context.Context, index string, filter domain.EntropyFilter) (*domain.EntropyPage, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	return s.client.EntropyData(ctx, index, filter)
}
