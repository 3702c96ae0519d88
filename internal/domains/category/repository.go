package category

import (
	"context"

	"github.com/google/uuid"
)

// ============================================================
// CONSUMED CONTRACTS
// ============================================================

// CategoryRepository is the persistence contract the engine consumes.
// Create, Update and Delete run inside a transaction and re-check the
// tree invariants with transaction-scoped reads, so a concurrent
// mutation that would break the depth or cycle invariant fails the
// write instead of corrupting the tree.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)

	// Delete removes the row (children go with it through the store's
	// cascade) and returns the deleted row as read inside the delete
	// transaction.
	Delete(ctx context.Context, id uuid.UUID) (*Category, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// GetRoots returns one page of root categories ordered by
	// sort_order, plus the total root count for pagination.
	GetRoots(ctx context.Context, filter *RootFilter) ([]Category, int64, error)

	// GetChildren returns the direct children of the given parents,
	// grouped by parent and ordered by sort_order within each group.
	GetChildren(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID][]Category, error)
}

// ProductStore is the read-only product contract the engine consumes
// for aggregate building. Implemented by the product domain.
type ProductStore interface {
	// FindTopSellers returns active, top-seller-flagged products that
	// belong to the category or to one of its direct children, ordered
	// by rating desc, review count desc, price asc, capped at limit.
	FindTopSellers(ctx context.Context, categoryID uuid.UUID, limit int) ([]TopSeller, error)

	// FindActiveByCategory returns active products directly in the
	// category, ordered by name, capped at limit.
	FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]ProductSummary, error)
}

// ============================================================
// PRODUCED CONTRACT
// ============================================================

// CategoryService is the engine facade exposed to the request layer.
type CategoryService interface {
	Index(ctx context.Context, page, perPage int, search string) (*CategoryListResp, error)
	Show(ctx context.Context, id uuid.UUID) (*TreeNodeResp, error)
	Create(ctx context.Context, req *CreateCategoryReq) (*TreeNodeResp, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryReq) (*TreeNodeResp, error)

	// Destroy deletes the category and returns its pre-deletion
	// snapshot, top sellers included.
	Destroy(ctx context.Context, id uuid.UUID) (*TreeNodeResp, error)
}
