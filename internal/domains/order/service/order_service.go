package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/internal/domains/order"
	"nutrition-backend/internal/domains/user"
	"nutrition-backend/pkg/logger"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type orderService struct {
	repo  order.OrderRepository
	carts cart.CartRepository
	users user.UserRepository
	queue order.TaskEnqueuer
}

func NewOrderService(repo order.OrderRepository, carts cart.CartRepository, users user.UserRepository, queue order.TaskEnqueuer) order.OrderService {
	return &orderService{repo: repo, carts: carts, users: users, queue: queue}
}

// Checkout turns the user's cart into an order. Order, lines and the
// cart wipe commit in one transaction; the confirmation email is
// enqueued after commit and only logged on failure.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *order.CheckoutReq) (*order.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, order.ErrEmptyCart
	}

	now := time.Now()
	o := &order.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          order.StatusPending,
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPhone:   req.ShippingPhone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, ci := range items {
		o.Items = append(o.Items, order.Item{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice,
		})
		o.Total = o.Total.Add(ci.Subtotal())
	}

	created, err := s.repo.CreateWithItems(ctx, o)
	if err != nil {
		return nil, err
	}

	logger.Info("order placed", map[string]interface{}{
		"order_id": created.ID.String(),
		"user_id":  userID.String(),
		"total":    created.Total.String(),
		"items":    len(created.Items),
	})

	s.enqueueConfirmation(ctx, created)

	return created, nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	return s.repo.GetByID(ctx, userID, orderID)
}

func (s *orderService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*order.OrderListResp, error) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &order.OrderListResp{Orders: orders, Total: total}, nil
}

func (s *orderService) UpdateTracking(ctx context.Context, orderID uuid.UUID, req *order.UpdateTrackingReq) (*order.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateTracking(ctx, orderID, req.Status, req.Carrier, req.TrackingCode)
	if err != nil {
		return nil, err
	}

	logger.Info("order tracking updated", map[string]interface{}{
		"order_id": updated.ID.String(),
		"status":   updated.Status,
		"carrier":  updated.Carrier,
	})
	return updated, nil
}

func (s *orderService) enqueueConfirmation(ctx context.Context, o *order.Order) {
	email := ""
	if u, err := s.users.GetByID(ctx, o.UserID); err == nil {
		email = u.Email
	}

	payload := &order.ConfirmationPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Email:   email,
		Total:   o.Total.String(),
	}

	if err := s.queue.EnqueueOrderConfirmation(ctx, payload); err != nil {
		logger.Warn("failed to enqueue order confirmation", map[string]interface{}{
			"order_id": o.ID.String(),
			"error":    err.Error(),
		})
	}
}
