package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/internal/domains/order"
	"nutrition-backend/internal/domains/user"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateWithItems(ctx context.Context, o *order.Order) (*order.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]order.Order, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) UpdateTracking(ctx context.Context, orderID uuid.UUID, status, carrier, trackingCode string) (*order.Order, error) {
	args := m.Called(ctx, orderID, status, carrier, trackingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) Upsert(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *mockCartRepo) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.Item, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *mockCartRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *mockCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCartRepo) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueOrderConfirmation(ctx context.Context, payload *order.ConfirmationPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func validCheckout() *order.CheckoutReq {
	return &order.CheckoutReq{
		ShippingName:    "Alex Doe",
		ShippingAddress: "1 Main St",
		ShippingCity:    "Springfield",
		ShippingPhone:   "5551234567",
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	cartItems := []cart.Item{
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), ProductName: "Whey Isolate",
			Quantity: 2, UnitPrice: decimal.NewFromFloat(39.99)},
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), ProductName: "Creatine",
			Quantity: 1, UnitPrice: decimal.NewFromFloat(19.99)},
	}

	t.Run("places an order from the cart", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)
		users := new(mockUserRepo)
		enqueuer := new(mockEnqueuer)

		carts.On("ListByUser", ctx, userID).Return(cartItems, nil)
		orders.On("CreateWithItems", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.Status == order.StatusPending &&
				len(o.Items) == 2 &&
				o.Total.Equal(decimal.NewFromFloat(99.97))
		})).Return(&order.Order{ID: uuid.New(), UserID: userID, Status: order.StatusPending,
			Total: decimal.NewFromFloat(99.97)}, nil)
		users.On("GetByID", ctx, userID).
			Return(&user.User{ID: userID, Email: "alex@example.com"}, nil)
		enqueuer.On("EnqueueOrderConfirmation", ctx, mock.MatchedBy(func(p *order.ConfirmationPayload) bool {
			return p.Email == "alex@example.com"
		})).Return(nil)

		svc := NewOrderService(orders, carts, users, enqueuer)

		o, err := svc.Checkout(ctx, userID, validCheckout())

		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, o.Status)
		enqueuer.AssertExpectations(t)
	})

	t.Run("empty cart cannot check out", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)

		carts.On("ListByUser", ctx, userID).Return([]cart.Item{}, nil)

		svc := NewOrderService(orders, carts, new(mockUserRepo), new(mockEnqueuer))

		_, err := svc.Checkout(ctx, userID, validCheckout())

		assert.ErrorIs(t, err, order.ErrEmptyCart)
		orders.AssertNotCalled(t, "CreateWithItems")
	})

	t.Run("failed enqueue does not fail the checkout", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)
		users := new(mockUserRepo)
		enqueuer := new(mockEnqueuer)

		carts.On("ListByUser", ctx, userID).Return(cartItems, nil)
		orders.On("CreateWithItems", ctx, mock.Anything).
			Return(&order.Order{ID: uuid.New(), UserID: userID, Status: order.StatusPending}, nil)
		users.On("GetByID", ctx, userID).Return(&user.User{ID: userID, Email: "a@b.c"}, nil)
		enqueuer.On("EnqueueOrderConfirmation", ctx, mock.Anything).Return(assert.AnError)

		svc := NewOrderService(orders, carts, users, enqueuer)

		_, err := svc.Checkout(ctx, userID, validCheckout())

		assert.NoError(t, err)
	})

	t.Run("invalid shipping details are rejected", func(t *testing.T) {
		svc := NewOrderService(new(mockOrderRepo), new(mockCartRepo), new(mockUserRepo), new(mockEnqueuer))

		_, err := svc.Checkout(ctx, userID, &order.CheckoutReq{ShippingName: "Alex Doe"})

		assert.Error(t, err)
	})
}

func TestUpdateTracking(t *testing.T) {
	ctx := context.Background()

	t.Run("sets carrier and tracking code", func(t *testing.T) {
		orders := new(mockOrderRepo)
		orderID := uuid.New()

		orders.On("UpdateTracking", ctx, orderID, order.StatusShipped, "DHL", "JD014600003RU").
			Return(&order.Order{ID: orderID, Status: order.StatusShipped,
				Carrier: "DHL", TrackingCode: "JD014600003RU"}, nil)

		svc := NewOrderService(orders, new(mockCartRepo), new(mockUserRepo), new(mockEnqueuer))

		o, err := svc.UpdateTracking(ctx, orderID, &order.UpdateTrackingReq{
			Status: order.StatusShipped, Carrier: "DHL", TrackingCode: "JD014600003RU",
		})

		require.NoError(t, err)
		assert.Equal(t, "DHL", o.Carrier)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc := NewOrderService(new(mockOrderRepo), new(mockCartRepo), new(mockUserRepo), new(mockEnqueuer))

		_, err := svc.UpdateTracking(ctx, uuid.New(), &order.UpdateTrackingReq{Status: "teleported"})

		assert.Error(t, err)
	})
}
