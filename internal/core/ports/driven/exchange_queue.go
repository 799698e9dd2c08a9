package driven

import (
	"context"
	"time"
)

// ExchangeTask is one queued request to scan an index partition.
type ExchangeTask struct {
	ID         string    `json:"id"`
	Index      string    `json:"index"`
	Partition  int64     `json:"partition"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ExchangeQueue hands exchange tasks from the API to the worker (Redis).
type ExchangeQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *ExchangeTask) error

	// DequeueWithTimeout retrieves the next task, waiting up to timeout.
	// Returns nil, nil if the timeout is reached with no tasks available.
	DequeueWithTimeout(ctx context.Context, timeout time.Duration) (*ExchangeTask, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack indicates processing failed; the task is re-queued.
	Nack(ctx context.Context, taskID string, reason string) error

	// Pending returns the number of tasks waiting to be processed.
	Pending(ctx context.Context) (int64, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}
