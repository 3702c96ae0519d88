package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutrition-backend/internal/domains/order"
	"nutrition-backend/pkg/database"
	"nutrition-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) order.OrderRepository {
	return &postgresRepository{pool: pool}
}

const orderColumns = `id, user_id, status, total, shipping_name, shipping_address,
	shipping_city, shipping_phone, carrier, tracking_code, created_at, updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingName,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingPhone,
		&o.Carrier, &o.TrackingCode, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) CreateWithItems(ctx context.Context, o *order.Order) (*order.Order, error) {
	const op = "order.CreateWithItems"

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*order.Order, error) {
		insertOrder := fmt.Sprintf(`
			INSERT INTO orders (id, user_id, status, total, shipping_name, shipping_address,
				shipping_city, shipping_phone, carrier, tracking_code, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING %s
		`, orderColumns)

		created, err := scanOrder(tx.QueryRow(ctx, insertOrder,
			o.ID, o.UserID, o.Status, o.Total, o.ShippingName, o.ShippingAddress,
			o.ShippingCity, o.ShippingPhone, o.Carrier, o.TrackingCode,
			o.CreatedAt, o.UpdatedAt,
		))
		if err != nil {
			logger.Error(op+": insert order failed", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for i := range o.Items {
			item := &o.Items[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, item.ID, created.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
			if err != nil {
				logger.Error(op+": insert order item failed", err)
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		if _, err := tx.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", o.UserID); err != nil {
			logger.Error(op+": clear cart failed", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		created.Items = o.Items
		return created, nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1 AND user_id = $2", orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		logger.Error("order.GetByID: store failure", err)
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]order.Order, int64, error) {
	const op = "order.ListByUser"

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		logger.Error(op+": store failure", err)
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *postgresRepository) UpdateTracking(ctx context.Context, orderID uuid.UUID, status, carrier, trackingCode string) (*order.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $1, carrier = $2, tracking_code = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s
	`, orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, status, carrier, trackingCode, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		logger.Error("order.UpdateTracking: store failure", err)
		return nil, fmt.Errorf("update tracking: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	items := []order.Item{}
	for rows.Next() {
		var i order.Item
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.UnitPrice); err != nil {
			return nil, fmt.Errorf("order items: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
