package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"nutrition-backend/internal/domains/order"
	"nutrition-backend/internal/shared"
	"nutrition-backend/pkg/logger"
)

// Client enqueues background tasks for the worker.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (c *Client) EnqueueOrderConfirmation(ctx context.Context, payload *order.ConfirmationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal confirmation payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendOrderConfirmation, data)

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue order confirmation: %w", err)
	}

	logger.Debug("order confirmation task enqueued", map[string]interface{}{
		"task_id": info.ID,
		"queue":   info.Queue,
	})
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
