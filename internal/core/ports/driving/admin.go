package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// AdminService manages core lifecycle, statistics and transport configuration
type AdminService interface {
	// CreateIndex creates a core for an index and stores its cover plan
	// when one is supplied.
	CreateIndex(ctx context.Context, spec domain.CoreSpec, plan *domain.CoverPlan) error

	// RemoveIndex unloads the core and drops the stored plan.
	RemoveIndex(ctx context.Context, name string, deleteInstance bool) error

	// ReloadIndex reloads the core's config and schema in place
	ReloadIndex(ctx context.Context, name string) error

	// IndexStatus fetches the admin status of one core
	IndexStatus(ctx context.Context, name string) (*domain.CoreStatus, error)

	// IndexStats fetches a core's statistics beans
	IndexStats(ctx context.Context, name string) (domain.MbeanStats, error)

	// GetPlan retrieves the stored cover plan for an index
	GetPlan(ctx context.Context, index string) (*domain.CoverPlan, error)

	// PutPlan stores or replaces the cover plan for an index
	PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error

	// SetPoolConfig resizes the transport connection pool
	SetPoolConfig(cfg domain.PoolConfig) error

	// PoolConfig reads the current transport pool sizing
	PoolConfig() domain.PoolConfig
}
