package driven

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// CoverPlanner is the oracle for cover plans (Redis). Plans are produced by
// cluster management as the ring changes; this module only consumes them,
// plus writes them in tests and operator tooling.
type CoverPlanner interface {
	// Plan retrieves the current cover plan for an index.
	// Returns domain.ErrPlanUnavailable when no plan is stored.
	Plan(ctx context.Context, index string) (*domain.CoverPlan, error)

	// PutPlan stores or replaces the plan for an index.
	PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error

	// DeletePlan removes the plan for an index.
	DeletePlan(ctx context.Context, index string) error

	// Ping checks if the plan backend is healthy.
	Ping(ctx context.Context) error
}
