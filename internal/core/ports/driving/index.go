package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// IndexService handles index writes: object indexing, deletes, commits
type IndexService interface {
	// IndexObject extracts an object into a document and indexes it,
	// replacing any previous replica entry for the same partition.
	IndexObject(ctx context.Context, index string, obj *domain.Object) error

	// IndexBatch applies prepared documents and delete intents as one
	// update request.
	IndexBatch(ctx context.Context, index string, docs []domain.Document, intents []domain.DeleteIntent) error

	// Delete translates intents into delete operations and applies them.
	// Returns false when the core has nothing to delete (core absent).
	Delete(ctx context.Context, index string, intents []domain.DeleteIntent) (bool, error)

	// Commit forces a commit on the core.
	Commit(ctx context.Context, index string) error

	// Ping reports whether the core answers its ping handler.
	Ping(ctx context.Context, index string) (bool, error)
}
