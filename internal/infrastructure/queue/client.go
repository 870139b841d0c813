package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// warm-ups for the same kind enqueued within this window collapse into one task
const warmListingsUniqueTTL = 30 * time.Second

// Client publishes background tasks for the API process
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// NewWarmListingsTask builds the task that rebuilds the cached listings of kind
func NewWarmListingsTask(kind string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.WarmListingsPayload{Kind: kind})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeWarmListings, payload), nil
}

func (c *Client) EnqueueWarmListings(ctx context.Context, kind string) error {
	task, err := NewWarmListingsTask(kind)
	if err != nil {
		return fmt.Errorf("build warm listings task: %w", err)
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(time.Minute),
		asynq.Unique(warmListingsUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue warm listings for %s: %w", kind, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
