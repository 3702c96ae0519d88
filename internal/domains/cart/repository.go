package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CartRepository interface {
	// Upsert adds the product to the cart, summing quantities when the
	// product is already present.
	Upsert(ctx context.Context, item *Item) (*Item, error)

	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Item, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// Clear empties the user's cart, used after checkout.
	Clear(ctx context.Context, userID uuid.UUID) error

	// DeleteStale removes items untouched for longer than olderThan,
	// returning how many were removed. Used by the cleanup job.
	DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *AddItemReq) (*Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *UpdateItemReq) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
}
