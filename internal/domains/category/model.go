package category

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nutrition-backend/internal/shared/utils"
)

// MaxDepth is the deepest level a category may occupy. Roots sit at
// depth 0, so the tree holds at most three levels:
// root -> child -> grandchild.
const MaxDepth = 2

// TopSellerLimit caps the ranked top-seller aggregate per category.
const TopSellerLimit = 3

// ChildProductLimit caps the active products eagerly attached to each
// child node in the tree read-model.
const ChildProductLimit = 10

const (
	maxNameLength = 100
	maxSlugLength = 100
)

// Category is one node of the self-referential catalog tree.
// ParentID == nil marks a root.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	ParentID  *uuid.UUID
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName trims and validates a category name. Every mutation
// runs provided names through here so the length constraints hold
// after updates as well as creates.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationErr("name", "cannot be empty")
	}
	if len(name) > maxNameLength {
		return "", validationErr("name", fmt.Sprintf("must not exceed %d characters (got %d)", maxNameLength, len(name)))
	}
	return name, nil
}

// NormalizeSlug trims and validates a slug, deriving one from the name
// when the slug is empty.
func NormalizeSlug(slug, name string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = utils.GenerateSlug(name)
	}
	if slug == "" || len(slug) > maxSlugLength {
		return "", validationErr("slug", fmt.Sprintf("must be 1-%d characters", maxSlugLength))
	}
	return slug, nil
}

// NewCategory validates input and builds a category entity. An empty
// slug is derived from the name.
func NewCategory(name, slug string, parentID *uuid.UUID, sortOrder int) (*Category, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	slug, err = NormalizeSlug(slug, name)
	if err != nil {
		return nil, err
	}

	if sortOrder < 0 {
		return nil, validationErr("sort_order", fmt.Sprintf("must not be negative (got %d)", sortOrder))
	}

	now := time.Now()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		ParentID:  parentID,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func (c *Category) String() string {
	return fmt.Sprintf("Category{ID: %s, Name: %s, Slug: %s}", c.ID, c.Name, c.Slug)
}

// RootFilter narrows the root-category page.
type RootFilter struct {
	// Search is a case-insensitive substring matched against name and slug.
	Search string
	Limit  int
	Offset int
}

// TopSeller is the compact product projection returned by the
// top-seller aggregate.
type TopSeller struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	ShortDescription string          `json:"short_description"`
	PrimaryImage     string          `json:"primary_image"`
	Price            decimal.Decimal `json:"price"`
	RatingAverage    float64         `json:"rating_average"`
	RatingCount      int             `json:"rating_count"`
}

// ProductSummary is the lightweight product row attached to child nodes
// in the tree read-model.
type ProductSummary struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	PrimaryImage string          `json:"primary_image"`
	Price        decimal.Decimal `json:"price"`
}

// TreeNode is the per-request read-model: a category with up to two
// eagerly loaded child levels and its top-seller aggregate. It is never
// persisted.
type TreeNode struct {
	Category
	Children   []ChildNode `json:"children"`
	TopSellers []TopSeller `json:"top_sellers"`
}

// ChildNode is a direct child carrying its own children (the leaf
// level, depth capped by the tree invariant) and a bounded product list.
type ChildNode struct {
	Category
	Children []Category       `json:"children"`
	Products []ProductSummary `json:"products"`
}
