package services

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for local testing

// MockSolrAdmin is a mock implementation of driven.SolrAdmin
type MockSolrAdmin struct {
	mock.Mock
}

func (m *MockSolrAdmin) CreateCore(ctx context.Context, spec domain.CoreSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *MockSolrAdmin) ReloadCore(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockSolrAdmin) RemoveCore(ctx context.Context, name string, deleteInstance bool) error {
	args := m.Called(ctx, name, deleteInstance)
	return args.Error(0)
}

func (m *MockSolrAdmin) CoreStatus(ctx context.Context, name string) (*domain.CoreStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoreStatus), args.Error(1)
}

func (m *MockSolrAdmin) Mbeans(ctx context.Context, core string) (domain.MbeanStats, error) {
	args := m.Called(ctx, core)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.MbeanStats), args.Error(1)
}

// MockSolrClient is a mock implementation of driven.SolrClient
type MockSolrClient struct {
	mock.Mock
}

func (m *MockSolrClient) Search(ctx context.Context, core string, params url.Values) (*domain.SearchResult, error) {
	args := m.Called(ctx, core, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockSolrClient) Index(ctx context.Context, core string, docs []domain.Document, deletes []domain.DeleteOp) error {
	args := m.Called(ctx, core, docs, deletes)
	return args.Error(0)
}

func (m *MockSolrClient) Delete(ctx context.Context, core string, ops []domain.DeleteOp) error {
	args := m.Called(ctx, core, ops)
	return args.Error(0)
}

func (m *MockSolrClient) Commit(ctx context.Context, core string) error {
	args := m.Called(ctx, core)
	return args.Error(0)
}

func (m *MockSolrClient) EntropyData(ctx context.Context, core string, filter domain.EntropyFilter) (*domain.EntropyPage, error) {
	args := m.Called(ctx, core, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntropyPage), args.Error(1)
}

func (m *MockSolrClient) Ping(ctx context.Context, core string) (bool, error) {
	args := m.Called(ctx, core)
	return args.Bool(0), args.Error(1)
}

func (m *MockSolrClient) SetPoolConfig(cfg domain.PoolConfig) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockSolrClient) PoolConfig() domain.PoolConfig {
	args := m.Called()
	return args.Get(0).(domain.PoolConfig)
}

// MockCoverPlanner is a mock implementation of driven.CoverPlanner
type MockCoverPlanner struct {
	mock.Mock
}

func (m *MockCoverPlanner) Plan(ctx context.Context, index string) (*domain.CoverPlan, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoverPlan), args.Error(1)
}

func (m *MockCoverPlanner) PutPlan(ctx context.Context, index string, plan *domain.CoverPlan) error {
	args := m.Called(ctx, index, plan)
	return args.Error(0)
}

func (m *MockCoverPlanner) DeletePlan(ctx context.Context, index string) error {
	args := m.Called(ctx, index)
	return args.Error(0)
}

func (m *MockCoverPlanner) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Test Helpers

func setupAdminTest(t *testing.T) (*adminService, *MockSolrAdmin, *MockSolrClient, *MockCoverPlanner) {
	admin := new(MockSolrAdmin)
	client := new(MockSolrClient)
	planner := new(MockCoverPlanner)

	svc := &adminService{
		admin:   admin,
		client:  client,
		planner: planner,
	}

	return svc, admin, client, planner
}

// TestNewAdminService tests the constructor
func TestNewAdminService(t *testing.T) {
	admin := new(MockSolrAdmin)
	client := new(MockSolrClient)
	planner := new(MockCoverPlanner)

	svc := NewAdminService(admin, client, planner)

	require.NotNil(t, svc)
	assert.Implements(t, (*driving.AdminService)(nil), svc)
}

// TestAdminService_CreateIndex tests creating a core together with its cover plan
func TestAdminService_CreateIndex(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, planner := setupAdminTest(t)

	spec := domain.CoreSpec{
		Name:       "users_idx",
		IndexDir:   "/var/yz/users_idx",
		CfgFile:    "solrconfig.xml",
		SchemaFile: "schema.xml",
	}
	plan := twoNodePlan()

	// Core creation succeeds
	admin.On("CreateCore", ctx, spec).Return(nil)

	// Plan is stored after the core exists
	planner.On("PutPlan", ctx, "users_idx", plan).Return(nil)

	err := svc.CreateIndex(ctx, spec, plan)

	require.NoError(t, err)
	admin.AssertExpectations(t)
	planner.AssertExpectations(t)
}

// TestAdminService_CreateIndex_NoPlan tests that creation without a plan skips the planner
func TestAdminService_CreateIndex_NoPlan(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, planner := setupAdminTest(t)

	spec := domain.CoreSpec{Name: "users_idx"}

	// Only the core is created; the planner must not be touched
	admin.On("CreateCore", ctx, spec).Return(nil)

	err := svc.CreateIndex(ctx, spec, nil)

	require.NoError(t, err)
	admin.AssertExpectations(t)
	planner.AssertExpectations(t)
}

// TestAdminService_CreateIndex_InvalidPlan tests that a bad plan is rejected before the core is created
func TestAdminService_CreateIndex_InvalidPlan(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, planner := setupAdminTest(t)

	// Plan with a node missing from the host mapping
	bad := twoNodePlan()
	delete(bad.Mapping, "riak@node2")

	err := svc.CreateIndex(ctx, domain.CoreSpec{Name: "users_idx"}, bad)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	admin.AssertNotCalled(t, "CreateCore", mock.Anything, mock.Anything)
	planner.AssertExpectations(t)
}

// TestAdminService_CreateIndex_MissingName tests that an empty core name is rejected
func TestAdminService_CreateIndex_MissingName(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	err := svc.CreateIndex(ctx, domain.CoreSpec{}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	admin.AssertNotCalled(t, "CreateCore", mock.Anything, mock.Anything)
}

// TestAdminService_CreateIndex_NoPlanner tests submitting a plan when no plan store is configured
func TestAdminService_CreateIndex_NoPlanner(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)
	svc.planner = nil

	err := svc.CreateIndex(ctx, domain.CoreSpec{Name: "users_idx"}, twoNodePlan())

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPlanUnavailable)
	assert.Contains(t, err.Error(), "no plan store configured")
	admin.AssertNotCalled(t, "CreateCore", mock.Anything, mock.Anything)
}

// TestAdminService_CreateIndex_CoreError tests that a failed core creation leaves no plan behind
func TestAdminService_CreateIndex_CoreError(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, planner := setupAdminTest(t)

	spec := domain.CoreSpec{Name: "users_idx"}

	// Core creation fails because the core already exists
	admin.On("CreateCore", ctx, spec).Return(domain.ErrAlreadyExists)

	err := svc.CreateIndex(ctx, spec, twoNodePlan())

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	admin.AssertExpectations(t)
	planner.AssertNotCalled(t, "PutPlan", mock.Anything, mock.Anything, mock.Anything)
}

// TestAdminService_RemoveIndex tests that removing a core drops its plan as well
func TestAdminService_RemoveIndex(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, planner := setupAdminTest(t)

	admin.On("RemoveCore", ctx, "users_idx", true).Return(nil)
	planner.On("DeletePlan", ctx, "users_idx").Return(nil)

	err := svc.RemoveIndex(ctx, "users_idx", true)

	require.NoError(t, err)
	admin.AssertExpectations(t)
	planner.AssertExpectations(t)
}

// TestAdminService_RemoveIndex_NoPlanner tests removal when no plan store is configured
func TestAdminService_RemoveIndex_NoPlanner(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)
	svc.planner = nil

	admin.On("RemoveCore", ctx, "users_idx", false).Return(nil)

	err := svc.RemoveIndex(ctx, "users_idx", false)

	require.NoError(t, err)
	admin.AssertExpectations(t)
}

// TestAdminService_RemoveIndex_MissingName tests that an empty core name is rejected
func TestAdminService_RemoveIndex_MissingName(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	err := svc.RemoveIndex(ctx, "", false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	admin.AssertNotCalled(t, "RemoveCore", mock.Anything, mock.Anything, mock.Anything)
}

// TestAdminService_ReloadIndex tests reloading a core in place
func TestAdminService_ReloadIndex(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	admin.On("ReloadCore", ctx, "users_idx").Return(nil)

	err := svc.ReloadIndex(ctx, "users_idx")

	require.NoError(t, err)
	admin.AssertExpectations(t)

	// An empty name never reaches the admin handler
	err = svc.ReloadIndex(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdminService_ReloadIndex_NotFound tests that an unknown core error passes through
func TestAdminService_ReloadIndex_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	admin.On("ReloadCore", ctx, "missing_idx").Return(domain.ErrNotFound)

	err := svc.ReloadIndex(ctx, "missing_idx")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	admin.AssertExpectations(t)
}

// TestAdminService_IndexStatus tests fetching the admin status of one core
func TestAdminService_IndexStatus(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	status := &domain.CoreStatus{
		Name:        "users_idx",
		InstanceDir: "/var/yz/users_idx",
		Index:       domain.IndexStatus{NumDocs: 42},
	}
	admin.On("CoreStatus", ctx, "users_idx").Return(status, nil)

	got, err := svc.IndexStatus(ctx, "users_idx")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "users_idx", got.Name)
	assert.Equal(t, int64(42), got.Index.NumDocs)
	admin.AssertExpectations(t)

	_, err = svc.IndexStatus(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdminService_IndexStatus_Error tests that a status poll failure passes through
func TestAdminService_IndexStatus_Error(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	admin.On("CoreStatus", ctx, "users_idx").Return(nil, errors.New("status poll failed"))

	got, err := svc.IndexStatus(ctx, "users_idx")

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "status poll failed")
	admin.AssertExpectations(t)
}

// TestAdminService_IndexStats tests fetching a core's statistics beans
func TestAdminService_IndexStats(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := setupAdminTest(t)

	beans := domain.MbeanStats{
		"CORE": {"numDocs": float64(42)},
	}
	admin.On("Mbeans", ctx, "users_idx").Return(beans, nil)

	stats, err := svc.IndexStats(ctx, "users_idx")

	require.NoError(t, err)
	assert.Equal(t, float64(42), stats["CORE"]["numDocs"])
	admin.AssertExpectations(t)

	_, err = svc.IndexStats(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdminService_GetPlan tests reading the stored cover plan for an index
func TestAdminService_GetPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _, planner := setupAdminTest(t)

	plan := twoNodePlan()
	planner.On("Plan", ctx, "users_idx").Return(plan, nil)

	got, err := svc.GetPlan(ctx, "users_idx")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Nodes, 2)
	assert.Len(t, got.Filters, 4)
	planner.AssertExpectations(t)

	_, err = svc.GetPlan(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdminService_GetPlan_NoPlanner tests reading a plan when no plan store is configured
func TestAdminService_GetPlan_NoPlanner(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := setupAdminTest(t)
	svc.planner = nil

	got, err := svc.GetPlan(ctx, "users_idx")

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrPlanUnavailable)
}

// TestAdminService_PutPlan tests storing a cover plan for an index
func TestAdminService_PutPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _, planner := setupAdminTest(t)

	plan := twoNodePlan()
	planner.On("PutPlan", ctx, "users_idx", plan).Return(nil)

	err := svc.PutPlan(ctx, "users_idx", plan)

	require.NoError(t, err)
	planner.AssertExpectations(t)

	err = svc.PutPlan(ctx, "", plan)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdminService_PutPlan_InvalidPlan tests that a rejected plan is never stored
func TestAdminService_PutPlan_InvalidPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _, planner := setupAdminTest(t)

	bad := twoNodePlan()
	bad.Nodes = nil

	err := svc.PutPlan(ctx, "users_idx", bad)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	planner.AssertNotCalled(t, "PutPlan", mock.Anything, mock.Anything, mock.Anything)
}

// TestAdminService_PutPlan_NoPlanner tests storing a plan when no plan store is configured
func TestAdminService_PutPlan_NoPlanner(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := setupAdminTest(t)
	svc.planner = nil

	err := svc.PutPlan(ctx, "users_idx", twoNodePlan())

	assert.ErrorIs(t, err, domain.ErrPlanUnavailable)
}

// TestAdminService_PoolConfig tests reading and resizing the transport pool
func TestAdminService_PoolConfig(t *testing.T) {
	svc, _, client, _ := setupAdminTest(t)

	cfg := domain.PoolConfig{MaxSessions: 50, MaxPipeline: 4}
	client.On("SetPoolConfig", cfg).Return(nil)
	client.On("PoolConfig").Return(cfg)

	require.NoError(t, svc.SetPoolConfig(cfg))

	got := svc.PoolConfig()
	assert.Equal(t, 50, got.MaxSessions)
	assert.Equal(t, 4, got.MaxPipeline)
	client.AssertExpectations(t)
}
