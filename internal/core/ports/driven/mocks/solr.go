package mocks

import (
	"context"
	"net/url"
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockSolrClient implements SolrClient
var _ driven.SolrClient = (*MockSolrClient)(nil)

// MockSolrClient is a mock implementation of SolrClient for testing.
// It records every call and serves injected responses; entropy pages are
// served in FIFO order so paging sequences can be scripted.
type MockSolrClient struct {
	mu sync.Mutex

	// Injected responses
	SearchResult *domain.SearchResult
	SearchErr    error
	IndexErr     error
	DeleteErr    error
	CommitErr    error
	PingUp       bool
	PingErr      error

	// Scripted entropy pages, popped per call. EntropyErr fires after the
	// scripted pages run out, or immediately when no pages are set.
	EntropyPages []*domain.EntropyPage
	EntropyErr   error

	// Recorded calls
	SearchCalls  []SearchCall
	IndexCalls   []IndexCall
	DeleteCalls  []DeleteCall
	CommitCores  []string
	EntropyCalls []EntropyCall

	pool domain.PoolConfig
}

// SearchCall records one Search invocation
type SearchCall struct {
	Core   string
	Params url.Values
}

// IndexCall records one Index invocation
type IndexCall struct {
	Core    string
	Docs    []domain.Document
	Deletes []domain.DeleteOp
}

// DeleteCall records one Delete invocation
type DeleteCall struct {
	Core string
	Ops  []domain.DeleteOp
}

// EntropyCall records one EntropyData invocation
type EntropyCall struct {
	Core   string
	Filter domain.EntropyFilter
}

// NewMockSolrClient creates a new MockSolrClient
func NewMockSolrClient() *MockSolrClient {
	return &MockSolrClient{
		PingUp: true,
		pool:   domain.DefaultPoolConfig(),
	}
}

func (m *MockSolrClient) Search(ctx context.Context, core string, params url.Values) (*domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// url.Values is a map; copy so later caller mutation cannot rewrite
	// the recorded call
	recorded := make(url.Values, len(params))
	for k, vs := range params {
		recorded[k] = append([]string(nil), vs...)
	}
	m.SearchCalls = append(m.SearchCalls, SearchCall{Core: core, Params: recorded})

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.SearchResult != nil {
		return m.SearchResult, nil
	}
	return &domain.SearchResult{Docs: []map[string]any{}}, nil
}

func (m *MockSolrClient) Index(ctx context.Context, core string, docs []domain.Document, deletes []domain.DeleteOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IndexCalls = append(m.IndexCalls, IndexCall{Core: core, Docs: docs, Deletes: deletes})
	return m.IndexErr
}

func (m *MockSolrClient) Delete(ctx context.Context, core string, ops []domain.DeleteOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, DeleteCall{Core: core, Ops: ops})
	return m.DeleteErr
}

func (m *MockSolrClient) Commit(ctx context.Context, core string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitCores = append(m.CommitCores, core)
	return m.CommitErr
}

func (m *MockSolrClient) EntropyData(ctx context.Context, core string, filter domain.EntropyFilter) (*domain.EntropyPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntropyCalls = append(m.EntropyCalls, EntropyCall{Core: core, Filter: filter})

	if len(m.EntropyPages) == 0 {
		if m.EntropyErr != nil {
			return nil, m.EntropyErr
		}
		return &domain.EntropyPage{More: false, Pairs: []domain.EntropyPair{}}, nil
	}

	page := m.EntropyPages[0]
	m.EntropyPages = m.EntropyPages[1:]
	return page, nil
}

func (m *MockSolrClient) Ping(ctx context.Context, core string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingUp, m.PingErr
}

func (m *MockSolrClient) SetPoolConfig(cfg domain.PoolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pool = cfg
	return nil
}

func (m *MockSolrClient) PoolConfig() domain.PoolConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pool
}

// Reset clears recorded calls and scripted responses
func (m *MockSolrClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = nil
	m.IndexCalls = nil
	m.DeleteCalls = nil
	m.CommitCores = nil
	m.EntropyCalls = nil
	m.EntropyPages = nil
}
