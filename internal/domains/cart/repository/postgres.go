package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) cart.CartRepository {
	return &postgresRepository{pool: pool}
}

const itemColumns = `ci.id, ci.user_id, ci.product_id, p.name, ci.quantity, ci.unit_price,
	ci.created_at, ci.updated_at`

func scanItem(row pgx.Row) (*cart.Item, error) {
	var i cart.Item
	err := row.Scan(&i.ID, &i.UserID, &i.ProductID, &i.ProductName, &i.Quantity,
		&i.UnitPrice, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *postgresRepository) Upsert(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		item.ID, item.UserID, item.ProductID, item.Quantity, item.UnitPrice,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&id)
	if err != nil {
		logger.Error("cart.Upsert: store failure", err)
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return r.getByID(ctx, item.UserID, id)
}

func (r *postgresRepository) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.Item, error) {
	query := `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, quantity, itemID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		logger.Error("cart.UpdateQuantity: store failure", err)
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	return r.getByID(ctx, userID, id)
}

func (r *postgresRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM cart_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		logger.Error("cart.Remove: store failure", err)
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC
	`, itemColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("cart.ListByUser: store failure", err)
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []cart.Item{}
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list cart items: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (r *postgresRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
		logger.Error("cart.Clear: store failure", err)
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *postgresRepository) getByID(ctx context.Context, userID, itemID uuid.UUID) (*cart.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND ci.user_id = $2
	`, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := r.pool.Exec(ctx, "DELETE FROM cart_items WHERE updated_at < $1", cutoff)
	if err != nil {
		logger.Error("cart.DeleteStale: store failure", err)
		return 0, fmt.Errorf("delete stale cart items: %w", err)
	}
	return tag.RowsAffected(), nil
}
