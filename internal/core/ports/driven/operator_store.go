package driven

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// OperatorStore handles operator persistence (PostgreSQL)
type OperatorStore interface {
	// Save creates or updates an operator
	Save(ctx context.Context, op *domain.Operator) error

	// Get retrieves an operator by ID
	Get(ctx context.Context, id string) (*domain.Operator, error)

	// GetByName retrieves an operator by name
	GetByName(ctx context.Context, name string) (*domain.Operator, error)

	// List retrieves all operators
	List(ctx context.Context) ([]*domain.Operator, error)

	// Delete deletes an operator
	Delete(ctx context.Context, id string) error
}
