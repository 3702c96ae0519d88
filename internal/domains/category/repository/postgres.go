package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutrition-backend/internal/domains/category"
	"nutrition-backend/pkg/database"
	"nutrition-backend/pkg/logger"
)

const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the
// invariant checks can run against either.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) category.CategoryRepository {
	return &postgresRepository{pool: pool}
}

const categoryColumns = "id, name, slug, parent_id, sort_order, created_at, updated_at"

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// classify translates a store failure into a domain error kind: missing
// rows become KindNotFound, slug collisions KindConflict, anything else
// is logged with its operation context and surfaces as KindInternal.
func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return category.WrapErr(category.KindNotFound, op, "category not found", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return category.WrapErr(category.KindConflict, op, "category slug already exists", err)
	}

	logger.Error(fmt.Sprintf("%s: store failure", op), err)
	return category.WrapErr(category.KindInternal, op, "store failure", err)
}

// ========================= READS =====================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return getByID(ctx, r.pool, id)
}

func getByID(ctx context.Context, q querier, id uuid.UUID) (*category.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = $1", categoryColumns)

	c, err := scanCategory(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify("category.GetByID", err)
	}
	return c, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE slug = $1", categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, classify("category.GetBySlug", err)
	}
	return c, nil
}

func (r *postgresRepository) GetRoots(ctx context.Context, filter *category.RootFilter) ([]category.Category, int64, error) {
	const op = "category.GetRoots"

	where := "parent_id IS NULL"
	args := []any{}
	argIndex := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM categories WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, classify(op, err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM categories WHERE %s ORDER BY sort_order ASC, created_at ASC LIMIT $%d OFFSET $%d",
		categoryColumns, where, argIndex, argIndex+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(op, err)
	}
	defer rows.Close()

	roots := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, classify(op, err)
		}
		roots = append(roots, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(op, err)
	}

	return roots, total, nil
}

func (r *postgresRepository) GetChildren(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID][]category.Category, error) {
	return getChildren(ctx, r.pool, parentIDs)
}

func getChildren(ctx context.Context, q querier, parentIDs []uuid.UUID) (map[uuid.UUID][]category.Category, error) {
	const op = "category.GetChildren"

	byParent := make(map[uuid.UUID][]category.Category, len(parentIDs))
	if len(parentIDs) == 0 {
		return byParent, nil
	}

	query := fmt.Sprintf(
		"SELECT %s FROM categories WHERE parent_id = ANY($1) ORDER BY parent_id, sort_order ASC, created_at ASC",
		categoryColumns,
	)

	rows, err := q.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	return byParent, nil
}

// ========================= WRITES =====================
//
// Create and Update re-check the tree invariants with reads scoped to
// the same transaction, and run at SERIALIZABLE isolation. The service
// has already validated against a pre-change snapshot, but a concurrent
// mutation may have landed in between, and at READ COMMITTED two
// writers could each re-validate against a snapshot missing the other's
// change and both commit. SERIALIZABLE makes the database abort one of
// them instead; the helper retries aborted transactions.

func (r *postgresRepository) Create(ctx context.Context, c *category.Category) (*category.Category, error) {
	const op = "category.Create"

	return database.WithSerializableTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*category.Category, error) {
		if c.ParentID != nil {
			if _, err := depthWithin(ctx, tx, *c.ParentID, op); err != nil {
				return nil, err
			}
		}

		query := fmt.Sprintf(`
			INSERT INTO categories (id, name, slug, parent_id, sort_order, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING %s
		`, categoryColumns)

		created, err := scanCategory(tx.QueryRow(ctx, query,
			c.ID, c.Name, c.Slug, c.ParentID, c.SortOrder, c.CreatedAt, c.UpdatedAt,
		))
		if err != nil {
			return nil, classify(op, err)
		}
		return created, nil
	})
}

func (r *postgresRepository) Update(ctx context.Context, c *category.Category) (*category.Category, error) {
	const op = "category.Update"

	return database.WithSerializableTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*category.Category, error) {
		if c.ParentID != nil {
			if _, err := depthWithin(ctx, tx, *c.ParentID, op); err != nil {
				return nil, err
			}
			if err := noCycleWithin(ctx, tx, c.ID, *c.ParentID, op); err != nil {
				return nil, err
			}
		}

		query := fmt.Sprintf(`
			UPDATE categories
			SET name = $1, slug = $2, parent_id = $3, sort_order = $4, updated_at = $5
			WHERE id = $6
			RETURNING %s
		`, categoryColumns)

		updated, err := scanCategory(tx.QueryRow(ctx, query,
			c.Name, c.Slug, c.ParentID, c.SortOrder, c.UpdatedAt, c.ID,
		))
		if err != nil {
			return nil, classify(op, err)
		}
		return updated, nil
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	const op = "category.Delete"

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*category.Category, error) {
		query := fmt.Sprintf("DELETE FROM categories WHERE id = $1 RETURNING %s", categoryColumns)

		deleted, err := scanCategory(tx.QueryRow(ctx, query, id))
		if err != nil {
			return nil, classify(op, err)
		}
		// Descendants are removed by the store's ON DELETE CASCADE rule.
		return deleted, nil
	})
}

// depthWithin recomputes the depth a child of parentID would occupy,
// using transaction-scoped reads. Same iterative walk and hard cap as
// the validator: at most MaxDepth steps, cap-exceeded means the
// hierarchy is (or would become) too deep.
func depthWithin(ctx context.Context, q querier, parentID uuid.UUID, op string) (int, error) {
	steps := 0
	cur := &parentID
	for cur != nil {
		steps++
		if steps > category.MaxDepth {
			return 0, category.Errf(category.KindInvalidHierarchy, op, "maximum depth of %d levels exceeded", category.MaxDepth+1)
		}

		node, err := getByID(ctx, q, *cur)
		if err != nil {
			if category.IsKind(err, category.KindNotFound) {
				return 0, category.Errf(category.KindNotFound, op, "parent category %s not found", cur)
			}
			return 0, err
		}
		cur = node.ParentID
	}

	return steps, nil
}

// noCycleWithin re-checks the circular-reference guard inside the
// transaction: the new parent must not descend from the category being
// moved.
func noCycleWithin(ctx context.Context, q querier, categoryID, newParentID uuid.UUID, op string) error {
	if categoryID == newParentID {
		return category.Errf(category.KindSelfReference, op, "category cannot be its own parent")
	}

	cur := &newParentID
	for steps := 0; cur != nil && steps < category.MaxDepth; steps++ {
		node, err := getByID(ctx, q, *cur)
		if err != nil {
			if category.IsKind(err, category.KindNotFound) {
				return category.Errf(category.KindNotFound, op, "parent category %s not found", cur)
			}
			return err
		}

		if node.ParentID != nil && *node.ParentID == categoryID {
			return category.Errf(category.KindCircularReference, op, "cannot move category under its own descendant")
		}
		cur = node.ParentID
	}

	return nil
}
