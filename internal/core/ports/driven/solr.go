package driven

import (
	"context"
	"net/url"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// SolrClient handles index reads and writes against one Solr endpoint.
// Every method is a single synchronous request; distributed execution is
// expressed through request parameters (shards, per-node filters), never by
// issuing parallel calls here.
type SolrClient interface {
	// Search runs a select query against a core. Params carry the caller's
	// terms plus any fan-out parameters already merged in.
	Search(ctx context.Context, core string, params url.Values) (*domain.SearchResult, error)

	// Index applies document adds and delete operations as one batch.
	Index(ctx context.Context, core string, docs []domain.Document, deletes []domain.DeleteOp) error

	// Delete applies delete operations only.
	Delete(ctx context.Context, core string, ops []domain.DeleteOp) error

	// Commit forces a commit so previous updates become visible.
	Commit(ctx context.Context, core string) error

	// EntropyData fetches one page of (key, digest) pairs for anti-entropy.
	EntropyData(ctx context.Context, core string, filter domain.EntropyFilter) (*domain.EntropyPage, error)

	// Ping reports whether the core responds to its ping handler.
	Ping(ctx context.Context, core string) (bool, error)

	// SetPoolConfig resizes the connection pool for subsequent requests.
	SetPoolConfig(cfg domain.PoolConfig) error

	// PoolConfig reads back the current pool sizing.
	PoolConfig() domain.PoolConfig
}

// SolrAdmin handles core lifecycle and statistics via the admin handlers.
type SolrAdmin interface {
	// CreateCore creates a core from a prepared instance directory.
	CreateCore(ctx context.Context, spec domain.CoreSpec) error

	// ReloadCore reloads a core's config and schema in place.
	ReloadCore(ctx context.Context, name string) error

	// RemoveCore unloads a core, optionally deleting its instance directory.
	RemoveCore(ctx context.Context, name string, deleteInstance bool) error

	// CoreStatus fetches the admin status of one core.
	CoreStatus(ctx context.Context, name string) (*domain.CoreStatus, error)

	// Mbeans fetches a core's statistics beans.
	Mbeans(ctx context.Context, core string) (domain.MbeanStats, error)
}
