package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"nutrition-backend/internal/domains/order"
	"nutrition-backend/pkg/logger"
)

// SendConfirmationHandler delivers the order confirmation email. The
// dev transport just logs; a real SMTP sender plugs in behind the same
// signature.
func SendConfirmationHandler() func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p order.ConfirmationPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// Malformed payload will never succeed, drop it.
			return asynq.SkipRetry
		}

		logger.Info("order confirmation sent", map[string]interface{}{
			"order_id": p.OrderID.String(),
			"email":    p.Email,
			"total":    p.Total,
		})
		return nil
	}
}
