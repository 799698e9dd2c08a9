package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

const (
	exchangeStream = "yz:exchanges"
	workerGroup    = "yz:workers"

	taskKeyPrefix = "yz:exchange:task:"

	consumerPrefix = "worker-"

	// how long a dequeued task may sit unacked before another worker
	// may claim it
	claimTimeout = 5 * time.Minute

	taskTTL = 24 * time.Hour
)

// Verify interface compliance
var _ driven.ExchangeQueue = (*Queue)(nil)

// Queue implements ExchangeQueue using Redis Streams. The consumer group
// tracks which worker holds which task, so a worker that dies mid-exchange
// leaves its task claimable instead of lost.
type Queue struct {
	client       *redis.Client
	consumerName string
}

// NewQueue creates a new Redis-backed exchange queue.
// The consumerName should be unique per worker instance (e.g., hostname + PID).
func NewQueue(client *redis.Client, consumerName string) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if consumerName == "" {
		consumerName = fmt.Sprintf("%s%d", consumerPrefix, time.Now().UnixNano())
	}

	q := &Queue{
		client:       client,
		consumerName: consumerName,
	}

	err := q.client.XGroupCreateMkStream(context.Background(), exchangeStream, workerGroup, "0").Err()
	if err != nil && !isGroupExistsError(err) {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return q, nil
}

// Enqueue adds an exchange task to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, task *driven.ExchangeTask) error {
	if task == nil {
		return errors.New("task is required")
	}
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now().UTC()
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, taskKeyPrefix+task.ID, data, taskTTL)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: exchangeStream,
		Values: map[string]interface{}{
			"task_id": task.ID,
		},
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// DequeueWithTimeout retrieves the next task, waiting up to timeout.
// A zero or negative timeout polls without blocking. Returns nil, nil when
// no task is available.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout time.Duration) (*driven.ExchangeTask, error) {
	// abandoned tasks first, so a dead worker's exchange is retried before
	// new work starts
	if task, err := q.claimAbandonedTask(ctx); err == nil && task != nil {
		return task, nil
	}

	block := timeout
	if timeout <= 0 {
		block = -1 // go-redis omits BLOCK for negative durations
	}

	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    workerGroup,
		Consumer: q.consumerName,
		Streams:  []string{exchangeStream, ">"},
		Count:    1,
		Block:    block,
	}).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	return q.resolveMessage(ctx, streams[0].Messages[0])
}

// resolveMessage turns a stream message into its task, recording the message
// id so Ack and Nack can find it later. Messages whose task data is gone are
// acknowledged and skipped.
func (q *Queue) resolveMessage(ctx context.Context, msg redis.XMessage) (*driven.ExchangeTask, error) {
	taskID, ok := msg.Values["task_id"].(string)
	if !ok {
		q.client.XAck(ctx, exchangeStream, workerGroup, msg.ID)
		q.client.XDel(ctx, exchangeStream, msg.ID)
		return nil, nil
	}

	task, err := q.getTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task data: %w", err)
	}
	if task == nil {
		q.client.XAck(ctx, exchangeStream, workerGroup, msg.ID)
		q.client.XDel(ctx, exchangeStream, msg.ID)
		return nil, nil
	}

	q.client.Set(ctx, taskKeyPrefix+taskID+":msg", msg.ID, taskTTL)
	return task, nil
}

// Ack acknowledges successful completion of a task and removes it.
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	msgID, err := q.client.Get(ctx, taskKeyPrefix+taskID+":msg").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get message ID: %w", err)
	}

	pipe := q.client.Pipeline()
	if msgID != "" {
		pipe.XAck(ctx, exchangeStream, workerGroup, msgID)
		pipe.XDel(ctx, exchangeStream, msgID)
	}
	pipe.Del(ctx, taskKeyPrefix+taskID)
	pipe.Del(ctx, taskKeyPrefix+taskID+":msg")

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to ack task: %w", err)
	}
	return nil
}

// Nack re-queues a task whose processing failed. The reason travels in the
// worker's log, not the queue.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	task, err := q.getTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task %s not found", taskID)
	}

	msgID, _ := q.client.Get(ctx, taskKeyPrefix+taskID+":msg").Result()

	pipe := q.client.Pipeline()
	if msgID != "" {
		pipe.XAck(ctx, exchangeStream, workerGroup, msgID)
		pipe.XDel(ctx, exchangeStream, msgID)
	}
	pipe.Del(ctx, taskKeyPrefix+taskID+":msg")
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: exchangeStream,
		Values: map[string]interface{}{
			"task_id": task.ID,
		},
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to nack task: %w", err)
	}
	return nil
}

// Pending returns the number of tasks currently in the stream.
func (q *Queue) Pending(ctx context.Context) (int64, error) {
	n, err := q.client.XLen(ctx, exchangeStream).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to get stream length: %w", err)
	}
	return n, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close cleans up resources.
func (q *Queue) Close() error {
	// Redis client is shared, don't close it here
	return nil
}

// getTask retrieves a task's stored payload. Returns nil, nil when the key
// has expired or been removed.
func (q *Queue) getTask(ctx context.Context, taskID string) (*driven.ExchangeTask, error) {
	data, err := q.client.Get(ctx, taskKeyPrefix+taskID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task driven.ExchangeTask
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// claimAbandonedTask tries to claim a task another worker dequeued but never
// acknowledged. Errors fall through to the normal read path.
func (q *Queue) claimAbandonedTask(ctx context.Context) (*driven.ExchangeTask, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: exchangeStream,
		Group:  workerGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
		Idle:   claimTimeout,
	}).Result()
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		claimed, err := q.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   exchangeStream,
			Group:    workerGroup,
			Consumer: q.consumerName,
			MinIdle:  claimTimeout,
			Messages: []string{p.ID},
		}).Result()
		if err != nil || len(claimed) == 0 {
			continue
		}

		task, err := q.resolveMessage(ctx, claimed[0])
		if err != nil || task == nil {
			continue
		}
		return task, nil
	}

	return nil, nil
}

func isGroupExistsError(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}
