package product

import (
	"context"

	"github.com/google/uuid"

	"nutrition-backend/internal/domains/category"
)

// ProductRepository is the persistence contract for the product domain.
// It also serves the category engine as its category.ProductStore.
type ProductRepository interface {
	category.ProductStore

	Create(ctx context.Context, product *Product) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter *ListFilter) ([]Product, int64, error)
}

// ProductService is the product facade exposed to the request layer.
type ProductService interface {
	List(ctx context.Context, filter *ListFilter) (*ProductListResp, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, req *CreateProductReq) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProductReq) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
