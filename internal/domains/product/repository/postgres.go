package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"nutrition-backend/internal/domains/category"
	"nutrition-backend/internal/domains/product"
	"nutrition-backend/pkg/logger"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) product.ProductRepository {
	return &postgresRepository{pool: pool}
}

const productColumns = `id, category_id, name, slug, short_description, description,
	price, images, is_active, is_top_seller, rating_average, rating_count,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description,
		&p.Price, pq.Array(&p.Images), &p.IsActive, &p.IsTopSeller,
		&p.RatingAverage, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ========================= CATEGORY ENGINE QUERIES =====================

// findTopSellersQuery scopes the aggregate to the category itself and
// its direct children; grandchildren never feed a node's aggregate.
const findTopSellersQuery = `
	SELECT p.id, p.name, p.slug, p.short_description,
	       COALESCE(p.images[1], ''), p.price, p.rating_average, p.rating_count
	FROM products p
	JOIN categories c ON c.id = p.category_id
	WHERE p.is_top_seller = TRUE
	  AND p.is_active = TRUE
	  AND (p.category_id = $1 OR c.parent_id = $1)
	ORDER BY p.rating_average DESC, p.rating_count DESC, p.price ASC
	LIMIT $2
`

const findActiveByCategoryQuery = `
	SELECT id, name, slug, COALESCE(images[1], ''), price
	FROM products
	WHERE category_id = $1 AND is_active = TRUE
	ORDER BY name ASC
	LIMIT $2
`

// FindTopSellers ranks top-seller products for a category aggregate.
// A product qualifies when it is flagged, active, and sits either in
// the category itself or in one of its direct children. Ranking is
// rating desc, review count desc, price asc, so equal-rating ties
// resolve deterministically.
func (r *postgresRepository) FindTopSellers(ctx context.Context, categoryID uuid.UUID, limit int) ([]category.TopSeller, error) {
	rows, err := r.pool.Query(ctx, findTopSellersQuery, categoryID, limit)
	if err != nil {
		logger.Error("product.FindTopSellers: query failed", err)
		return nil, fmt.Errorf("find top sellers: %w", err)
	}
	defer rows.Close()

	sellers := []category.TopSeller{}
	for rows.Next() {
		var ts category.TopSeller
		err := rows.Scan(&ts.ID, &ts.Name, &ts.Slug, &ts.ShortDescription,
			&ts.PrimaryImage, &ts.Price, &ts.RatingAverage, &ts.RatingCount)
		if err != nil {
			return nil, fmt.Errorf("find top sellers: %w", err)
		}
		sellers = append(sellers, ts)
	}
	return sellers, rows.Err()
}

// FindActiveByCategory returns the bounded product preview attached to
// child nodes in the category tree.
func (r *postgresRepository) FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]category.ProductSummary, error) {
	rows, err := r.pool.Query(ctx, findActiveByCategoryQuery, categoryID, limit)
	if err != nil {
		logger.Error("product.FindActiveByCategory: query failed", err)
		return nil, fmt.Errorf("find active products: %w", err)
	}
	defer rows.Close()

	summaries := []category.ProductSummary{}
	for rows.Next() {
		var ps category.ProductSummary
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Slug, &ps.PrimaryImage, &ps.Price); err != nil {
			return nil, fmt.Errorf("find active products: %w", err)
		}
		summaries = append(summaries, ps)
	}
	return summaries, rows.Err()
}

// ========================= CRUD =====================

func (r *postgresRepository) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO products (id, category_id, name, slug, short_description, description,
			price, images, is_active, is_top_seller, rating_average, rating_count,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s
	`, productColumns)

	created, err := scanProduct(r.pool.QueryRow(ctx, query,
		p.ID, p.CategoryID, p.Name, p.Slug, p.ShortDescription, p.Description,
		p.Price, pq.Array(p.Images), p.IsActive, p.IsTopSeller,
		p.RatingAverage, p.RatingCount, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, classify("product.Create", err)
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, short_description = $4,
		    description = $5, price = $6, images = $7, is_active = $8,
		    is_top_seller = $9, updated_at = $10
		WHERE id = $11
		RETURNING %s
	`, productColumns)

	updated, err := scanProduct(r.pool.QueryRow(ctx, query,
		p.CategoryID, p.Name, p.Slug, p.ShortDescription, p.Description,
		p.Price, pq.Array(p.Images), p.IsActive, p.IsTopSeller, p.UpdatedAt, p.ID,
	))
	if err != nil {
		return nil, classify("product.Update", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return classify("product.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify("product.GetByID", err)
	}
	return p, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE slug = $1", productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, classify("product.GetBySlug", err)
	}
	return p, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *product.ListFilter) ([]product.Product, int64, error) {
	const op = "product.List"

	where := "1=1"
	args := []any{}
	argIndex := 1

	if filter.CategoryID != nil {
		where += fmt.Sprintf(" AND category_id = $%d", argIndex)
		args = append(args, *filter.CategoryID)
		argIndex++
	}
	if filter.ActiveOnly {
		where += " AND is_active = TRUE"
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(op, err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		productColumns, where, argIndex, argIndex+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(op, err)
	}
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, classify(op, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(op, err)
	}

	return products, total, nil
}

func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return product.ErrProductNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return product.ErrSlugExists
	}

	logger.Error(fmt.Sprintf("%s: store failure", op), err)
	return fmt.Errorf("%s: %w", op, err)
}
