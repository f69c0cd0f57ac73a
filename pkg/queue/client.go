package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Client is the thin enqueue side of the job queue. Delivery retries are the
// queue's responsibility, not the caller's.
type Client struct {
	inner *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(redisOpt)}
}

func (c *Client) EnqueueExecution(ctx context.Context, job ExecuteJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, err = c.inner.EnqueueContext(ctx, asynq.NewTask(TypeWorkflowExecute, payload))
	return err
}

func (c *Client) Close() error {
	return c.inner.Close()
}

// NewExecuteTask builds the raw asynq task for an execution job. Used by the
// cron scheduler, which registers tasks instead of enqueueing them directly.
func NewExecuteTask(job ExecuteJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWorkflowExecute, payload), nil
}
