package services

import (
	"context"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Ensure adminService implements AdminService
var _ driving.AdminService = (*adminService)(nil)

// adminService implements the AdminService interface
type adminService struct {
	admin   driven.SolrAdmin
	client  driven.SolrClient
	planner driven.CoverPlanner
}

// NewAdminService creates a new AdminService
func NewAdminService(admin driven.SolrAdmin, client driven.SolrClient, planner driven.CoverPlanner) driving.AdminService {
	return &adminService{
		admin:   admin,
		client:  client,
		planner: planner,
	}
}

// CreateIndex creates a core for an index and stores its cover plan when one
// is supplied. The plan is validated before the core is touched, so a bad
// plan never leaves a half-created index behind.
func (s *adminService) CreateIndex(ctx context.Context, spec domain.CoreSpec, plan *domain.CoverPlan) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: core name is required", domain.ErrInvalidInput)
	}
	if plan != nil {
		if s.planner == nil {
			return fmt.Errorf("%w: no plan store configured", domain.ErrPlanUnavailable)
		}
		if err := plan.Validate(); err != nil {
			return err
		}
	}

	if err := s.admin.CreateCore(ctx, spec); err != nil {
		return err
	}

	if plan != nil {
		return s.planner.PutPlan(ctx, spec.Name, plan)
	}
	return nil
}

// RemoveIndex unloads the core and drops the stored plan.
func (s *adminService) RemoveIndex(ctx context.Context, name string, deleteInstance bool) error {
	if name == "" {
		return fmt.Errorf("%w: core name is required", domain.ErrInvalidInput)
	}
	if err := s.admin.RemoveCore(ctx, name, deleteInstance); err != nil {
		return err
	}
	if s.planner == nil {
		return nil
	}
	return s.planner.DeletePlan(ctx, name)
}

// ReloadIndex reloads the core's config and schema in place
func (s *adminService) ReloadIndex(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: core name is required", domain.ErrInvalidInput)
	}
	return s.admin.ReloadCore(ctx, name)
}

// IndexStatus fetches the admin status of one core
func (s *adminService) IndexStatus(ctx context.Context, name string) (*domain.CoreStatus, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: core name is required", domain.ErrInvalidInput)
	}
	return s.admin.CoreStatus(ctx, name)
}

// IndexStats fetches a core's statistics beans
func (s *adminService) IndexStats(ctx context.Context, name string) (domain.MbeanStats, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: core name is required", domain.ErrInvalidInput)
	}
	return s.admin.Mbeans(ctx, name)
}

// GetPlan retrieves the stored cover plan for an index
func (s *adminService) GetPlan(ctx context.Context, index string) (*domain.CoverPlan, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if s.planner == nil {
		return nil, fmt.Errorf("%w: no plan store configured", domain.ErrPlanUnavailable)
	}
	return s.planner.Plan(ctx, index)
}

// PutPlan stores or replaces the cover plan for an index
func (s *adminService) PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error {
	if index == "" {
		return fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if s.planner == nil {
		return fmt.Errorf("%w: no plan store configured", domain.ErrPlanUnavailable)
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	return s.planner.PutPlan(ctx, index, plan)
}

// SetPoolConfig resizes the transport connection pool
func (s *adminService) SetPoolConfig(cfg domain.PoolConfig) error {
	return s.client.SetPoolConfig(cfg)
}

// PoolConfig reads the current transport pool sizing
func (s *adminService) PoolConfig() domain.PoolConfig {
	return s.client.PoolConfig()
}
