package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// EntropyService pages through per-partition content digests for
// anti-entropy comparison. Each call yields exactly one page; the caller
// feeds the returned continuation into the next call.
type EntropyService interface {
	// Page fetches one page of (key, digest) pairs.
	Page(ctx context.Context, index string, filter domain.EntropyFilter) (*domain.EntropyPage, error)
}
