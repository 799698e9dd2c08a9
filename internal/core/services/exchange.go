package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// defaultPageLimit caps the pairs returned per entropy page. Large
// partitions stream over many pages instead of one giant response.
const defaultPageLimit = 1000

// staleRunningAge bounds how long a running record blocks new triggers. A
// record older than this belongs to a worker that died without finishing;
// the distributed lock is what actually serialises concurrent runs.
const staleRunningAge = 2 * time.Hour

// Ensure exchangeService implements ExchangeService
var _ driving.ExchangeService = (*exchangeService)(nil)

// exchangeService coordinates anti-entropy exchanges. Trigger queues work
// for the exchange worker; Run executes one exchange: it drives the entropy
// pager to exhaustion, folds every (key, digest) pair into a rollup digest
// and persists the outcome.
type exchangeService struct {
	client    driven.SolrClient
	store     driven.ExchangeStore
	queue     driven.ExchangeQueue
	logger    *slog.Logger
	pageLimit int
}

// ExchangeServiceConfig holds dependencies for the exchange service.
type ExchangeServiceConfig struct {
	Client driven.SolrClient
	Store  driven.ExchangeStore
	Queue  driven.ExchangeQueue
	Logger *slog.Logger

	// PageLimit overrides the pairs-per-page cap. Zero keeps the default.
	PageLimit int
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(cfg ExchangeServiceConfig) driving.ExchangeService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}

	return &exchangeService{
		client:    cfg.Client,
		store:     cfg.Store,
		queue:     cfg.Queue,
		logger:    logger,
		pageLimit: pageLimit,
	}
}

// Trigger enqueues an exchange for an index partition and returns the queued
// task id. A live running record for the same partition rejects the trigger;
// the worker-side lock is the hard guarantee, this check just keeps the
// queue free of obvious duplicates.
func (s *exchangeService) Trigger(ctx context.Context, index string, partition int64) (string, error) {
	if index == "" {
		return "", fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if partition < 0 {
		return "", fmt.Errorf("%w: partition must be non-negative", domain.ErrInvalidInput)
	}

	latest, err := s.store.Latest(ctx, index, partition)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if err == nil && latest.Status == domain.ExchangeStatusRunning &&
		time.Since(latest.StartedAt) < staleRunningAge {
		return "", fmt.Errorf("%w: %s partition %d", domain.ErrExchangeInProgress, index, partition)
	}

	id := generateID()
	task := &driven.ExchangeTask{
		ID:        id,
		Index:     index,
		Partition: partition,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return "", fmt.Errorf("failed to enqueue exchange: %w", err)
	}

	s.logger.Info("exchange queued", "exchange_id", id, "index", index, "partition", partition)
	return id, nil
}

// Run executes one exchange synchronously.
//
// The pager loop is caller-driven: each iteration issues exactly one page
// request whose filter carries the previous page's continuation. A failed
// page fails the whole exchange; the last good continuation dies with it,
// so a retry starts from the beginning rather than resuming mid-stream.
func (s *exchangeService) Run(ctx context.Context, id string, index string, partition int64) (*domain.Exchange, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if partition < 0 {
		return nil, fmt.Errorf("%w: partition must be non-negative", domain.ErrInvalidInput)
	}
	if id == "" {
		id = generateID()
	}

	started := time.Now().UTC()
	ex := &domain.Exchange{
		ID:        id,
		Index:     index,
		Partition: partition,
		Status:    domain.ExchangeStatusRunning,
		StartedAt: started,
	}
	if err := s.store.Save(ctx, ex); err != nil {
		s.logger.Warn("failed to save running exchange", "exchange_id", id, "error", err)
	}

	s.logger.Info("starting exchange", "exchange_id", id, "index", index, "partition", partition)

	// Entries indexed after the exchange started are the write path's
	// business; the cutoff keeps the scan bounded.
	filter := domain.EntropyFilter{
		Before:    started,
		Limit:     s.pageLimit,
		Partition: &partition,
	}
	rollup := xxhash.New()

	for {
		select {
		case <-ctx.Done():
			return s.failExchange(ctx, ex, ctx.Err())
		default:
		}

		page, err := s.client.EntropyData(ctx, index, filter)
		if err != nil {
			return s.failExchange(ctx, ex, fmt.Errorf("entropy page %d: %w", ex.Pages+1, err))
		}

		for _, pair := range page.Pairs {
			foldPair(rollup, pair)
		}
		ex.Pairs += len(page.Pairs)
		ex.Pages++

		if !page.More {
			break
		}
		filter.Continuation = page.Continuation
	}

	finished := time.Now().UTC()
	ex.Status = domain.ExchangeStatusCompleted
	ex.Digest = fmt.Sprintf("%016x", rollup.Sum64())
	ex.FinishedAt = &finished

	if err := s.store.Save(ctx, ex); err != nil {
		s.logger.Warn("failed to save exchange record", "exchange_id", id, "error", err)
	}

	s.logger.Info("exchange completed",
		"exchange_id", id,
		"index", index,
		"partition", partition,
		"pages", ex.Pages,
		"pairs", ex.Pairs,
		"digest", ex.Digest,
		"duration_seconds", time.Since(started).Seconds(),
	)

	return ex, nil
}

// Get retrieves one exchange record
func (s *exchangeService) Get(ctx context.Context, id string) (*domain.Exchange, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: exchange id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// List retrieves recent exchanges, optionally filtered by index
func (s *exchangeService) List(ctx context.Context, index string, limit int) ([]*domain.Exchange, error) {
	return s.store.List(ctx, index, limit)
}

// Stats aggregates exchange counts by status
func (s *exchangeService) Stats(ctx context.Context) (*domain.ExchangeStats, error) {
	return s.store.Stats(ctx)
}

// failExchange records a failed exchange and hands the cause back.
func (s *exchangeService) failExchange(ctx context.Context, ex *domain.Exchange, err error) (*domain.Exchange, error) {
	s.logger.Error("exchange failed",
		"exchange_id", ex.ID,
		"index", ex.Index,
		"partition", ex.Partition,
		"pages", ex.Pages,
		"error", err,
	)

	now := time.Now().UTC()
	ex.Status = domain.ExchangeStatusFailed
	ex.Error = err.Error()
	ex.FinishedAt = &now
	if saveErr := s.store.Save(ctx, ex); saveErr != nil {
		s.logger.Warn("failed to save exchange record", "exchange_id", ex.ID, "error", saveErr)
	}

	return ex, err
}

// foldPair folds one (key, digest) entry into the rollup. Parts are
// delimited so ("ab","c") and ("a","bc") cannot produce the same stream.
func foldPair(rollup *xxhash.Digest, pair domain.EntropyPair) {
	_, _ = rollup.WriteString(pair.Key.Type)
	_, _ = rollup.Write([]byte{0})
	_, _ = rollup.WriteString(pair.Key.Bucket)
	_, _ = rollup.Write([]byte{0})
	_, _ = rollup.WriteString(pair.Key.Key)
	_, _ = rollup.Write([]byte{0})
	_, _ = rollup.Write(pair.Digest)
}
