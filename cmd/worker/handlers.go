package main

import (
	"context"

	"github.com/hibiken/asynq"

	cartJob "nutrition-backend/internal/domains/cart/job"
	orderJob "nutrition-backend/internal/domains/order/job"
	"nutrition-backend/internal/shared"
	"nutrition-backend/pkg/container"
)

// HandlerRegistry holds every task handler the worker serves.
type HandlerRegistry struct {
	sendOrderConfirmation func(ctx context.Context, t *asynq.Task) error
	cleanupStaleCarts     func(ctx context.Context, t *asynq.Task) error
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendOrderConfirmation: orderJob.SendConfirmationHandler(),
		cleanupStaleCarts:     cartJob.CleanupStaleHandler(c.CartRepo),
	}
}

// RegisterHandlers binds task types to their handlers on the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOrderConfirmation, h.sendOrderConfirmation)
	mux.HandleFunc(shared.TypeCleanupStaleCarts, h.cleanupStaleCarts)
}
