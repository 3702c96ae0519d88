package order

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepository interface {
	// CreateWithItems persists the order and its lines and clears the
	// user's cart, all inside one transaction.
	CreateWithItems(ctx context.Context, order *Order) (*Order, error)

	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Order, int64, error)
	UpdateTracking(ctx context.Context, orderID uuid.UUID, status, carrier, trackingCode string) (*Order, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutReq) (*Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*OrderListResp, error)
	UpdateTracking(ctx context.Context, orderID uuid.UUID, req *UpdateTrackingReq) (*Order, error)
}

// TaskEnqueuer pushes background work to the queue. Implemented by the
// queue infrastructure; a failed enqueue never fails the checkout.
type TaskEnqueuer interface {
	EnqueueOrderConfirmation(ctx context.Context, payload *ConfirmationPayload) error
}
