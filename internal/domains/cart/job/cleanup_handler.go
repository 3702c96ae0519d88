package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/pkg/logger"
)

// StaleAfter is how long an untouched cart item survives before the
// cleanup job removes it.
const StaleAfter = 30 * 24 * time.Hour

// CleanupStaleHandler removes cart items that have not been touched
// within the staleness window. Runs on the scheduler's cron.
func CleanupStaleHandler(repo cart.CartRepository) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := repo.DeleteStale(ctx, StaleAfter)
		if err != nil {
			return err
		}

		logger.Info("stale cart items cleaned up", map[string]interface{}{
			"removed": removed,
		})
		return nil
	}
}
