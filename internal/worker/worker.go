package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Worker processes exchange tasks from the queue.
// Each task scans one index partition; a distributed lock keeps two workers
// off the same partition.
type Worker struct {
	queue     driven.ExchangeQueue
	locks     driven.DistributedLock
	exchanges driving.ExchangeService
	logger    *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds
	lockTTL        time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Queue          driven.ExchangeQueue
	Locks          driven.DistributedLock
	Exchanges      driving.ExchangeService
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again
	LockTTL        time.Duration
}

// NewWorker creates a new exchange worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 15 * time.Minute
	}

	return &Worker{
		queue:          cfg.Queue,
		locks:          cfg.Locks,
		exchanges:      cfg.Exchanges,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
		lockTTL:        lockTTL,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	// Start worker goroutines
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	// Wait for all workers to finish
	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	// Wait for workers to finish
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		// Dequeue a task with timeout
		task, err := w.queue.DequeueWithTimeout(ctx, time.Duration(w.dequeueTimeout)*time.Second)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			// No task available, continue
			continue
		}

		// Process the task
		w.processTask(ctx, task, logger)
	}
}

// processTask runs one exchange under the partition lock.
func (w *Worker) processTask(ctx context.Context, task *driven.ExchangeTask, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "index", task.Index, "partition", task.Partition)
	logger.Info("processing exchange task")

	lockName := fmt.Sprintf("exchange:%s:%d", task.Index, task.Partition)
	acquired, err := w.locks.Acquire(ctx, lockName, w.lockTTL)
	if err != nil {
		logger.Error("failed to acquire partition lock", "error", err)
		if nackErr := w.queue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}
	if !acquired {
		// Another worker is already scanning this partition; requeue so
		// the task runs once that scan is over
		logger.Info("partition locked elsewhere, requeueing")
		if nackErr := w.queue.Nack(ctx, task.ID, "partition locked"); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}
	defer func() {
		if releaseErr := w.locks.Release(ctx, lockName); releaseErr != nil {
			logger.Warn("failed to release partition lock", "error", releaseErr)
		}
	}()

	// Keep the lock alive while long scans page through
	stopExtend := make(chan struct{})
	go w.extendLock(ctx, lockName, stopExtend, logger)

	startTime := time.Now()
	ex, err := w.exchanges.Run(ctx, task.ID, task.Index, task.Partition)
	close(stopExtend)
	duration := time.Since(startTime)

	if err != nil {
		logger.Error("exchange failed",
			"duration", duration,
			"error", err,
		)

		if ex != nil || errors.Is(err, domain.ErrInvalidInput) {
			// The failure is on record (or the task can never succeed);
			// retrying from the queue would only repeat it
			if ackErr := w.queue.Ack(ctx, task.ID); ackErr != nil {
				logger.Error("failed to ack task", "ack_error", ackErr)
			}
			return
		}

		// Nack the task so it can be retried
		if nackErr := w.queue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("exchange completed",
		"duration", duration,
		"pages", ex.Pages,
		"pairs", ex.Pairs,
		"digest", ex.Digest,
	)

	// Ack the task
	if ackErr := w.queue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// extendLock refreshes the partition lock until stopped.
func (w *Worker) extendLock(ctx context.Context, lockName string, stop <-chan struct{}, logger *slog.Logger) {
	ticker := time.NewTicker(w.lockTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.locks.Extend(ctx, lockName, w.lockTTL); err != nil {
				logger.Warn("failed to extend partition lock", "error", err)
			}
		}
	}
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	// Check queue health
	if err := w.queue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
