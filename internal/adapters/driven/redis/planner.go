package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.CoverPlanner = (*Planner)(nil)

const planPrefix = "yz:plan:"

// Planner implements driven.CoverPlanner using Redis. Cluster management
// writes a JSON cover plan per index as the ring changes; queries read the
// current plan on every fan-out.
type Planner struct {
	client *redis.Client
}

// NewPlanner creates a new Redis-backed cover plan oracle
func NewPlanner(client *redis.Client) *Planner {
	return &Planner{client: client}
}

// Plan retrieves the current cover plan for an index. A missing key or a
// payload that no longer decodes both mean there is no usable plan.
func (p *Planner) Plan(ctx context.Context, index string) (*domain.CoverPlan, error) {
	data, err := p.client.Get(ctx, planPrefix+index).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: index %s", domain.ErrPlanUnavailable, index)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan for %s: %w", index, err)
	}

	var plan domain.CoverPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: stale plan for %s: %v", domain.ErrPlanUnavailable, index, err)
	}
	if len(plan.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty plan for %s", domain.ErrPlanUnavailable, index)
	}

	return &plan, nil
}

// PutPlan stores or replaces the plan for an index. Plans do not expire;
// they are overwritten by the next ring change.
func (p *Planner) PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := p.client.Set(ctx, planPrefix+index, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save plan for %s: %w", index, err)
	}
	return nil
}

// DeletePlan removes the plan for an index
func (p *Planner) DeletePlan(ctx context.Context, index string) error {
	if err := p.client.Del(ctx, planPrefix+index).Err(); err != nil {
		return fmt.Errorf("failed to delete plan for %s: %w", index, err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (p *Planner) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
