package category

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ParentPatch models the three states an update may put the parent
// reference in: omitted from the payload (keep current parent), an
// explicit JSON null (promote to root), or a concrete parent id.
// A plain *uuid.UUID cannot tell the first two apart.
type ParentPatch struct {
	set   bool
	value *uuid.UUID
}

// ParentUnset leaves the current parent untouched.
func ParentUnset() ParentPatch { return ParentPatch{} }

// ParentClear promotes the category to a root.
func ParentClear() ParentPatch { return ParentPatch{set: true} }

// ParentSet assigns a new parent.
func ParentSet(id uuid.UUID) ParentPatch { return ParentPatch{set: true, value: &id} }

// Provided reports whether the field appeared in the payload at all.
func (p ParentPatch) Provided() bool { return p.set }

// Value returns the new parent id, nil meaning "clear". Only
// meaningful when Provided() is true.
func (p ParentPatch) Value() *uuid.UUID { return p.value }

func (p *ParentPatch) UnmarshalJSON(data []byte) error {
	p.set = true
	if string(data) == "null" {
		p.value = nil
		return nil
	}

	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("parent_id: %w", err)
	}
	p.value = &id
	return nil
}

func (p ParentPatch) MarshalJSON() ([]byte, error) {
	if !p.set || p.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// ============================================================
// REQUEST DTOs
// ============================================================

// CreateCategoryReq is the request body for POST /v1/categories.
type CreateCategoryReq struct {
	Name string `json:"name" binding:"required,min=1,max=100"`

	// Slug is optional; when empty it is derived from the name.
	Slug string `json:"slug" binding:"omitempty,max=100"`

	// ParentID of the parent category; nil creates a root.
	ParentID *uuid.UUID `json:"parent_id" binding:"omitempty"`

	// SortOrder among siblings, defaults to 0.
	SortOrder int `json:"sort_order" binding:"omitempty,gte=0"`
}

// UpdateCategoryReq is the request body for PUT /v1/categories/:id.
// All fields are optional; provided fields overwrite.
type UpdateCategoryReq struct {
	Name      *string     `json:"name" binding:"omitempty,min=1,max=100"`
	Slug      *string     `json:"slug" binding:"omitempty,min=1,max=100"`
	SortOrder *int        `json:"sort_order" binding:"omitempty,gte=0"`
	Parent    ParentPatch `json:"parent_id"`
}

// ============================================================
// RESPONSE DTOs
// ============================================================

// TreeNodeResp is the composed category record returned by every
// operation: the node, two nested child levels and the top-seller
// aggregate.
type TreeNodeResp struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	ParentID   *uuid.UUID      `json:"parent_id,omitempty"`
	SortOrder  int             `json:"sort_order"`
	Children   []ChildNodeResp `json:"children"`
	TopSellers []TopSeller     `json:"top_sellers"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ChildNodeResp struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	SortOrder int              `json:"sort_order"`
	Children  []LeafNodeResp   `json:"children"`
	Products  []ProductSummary `json:"products"`
}

type LeafNodeResp struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
}

// CategoryListResp is the paginated index response. Pagination runs
// over roots only, never over the flattened tree.
type CategoryListResp struct {
	Categories []TreeNodeResp `json:"categories"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	HasMore    bool           `json:"has_more"`
}

// ============================================================
// MAPPERS (read-model -> DTO)
// ============================================================

func TreeNodeToResp(n *TreeNode) *TreeNodeResp {
	if n == nil {
		return nil
	}

	children := make([]ChildNodeResp, 0, len(n.Children))
	for i := range n.Children {
		children = append(children, childNodeToResp(&n.Children[i]))
	}

	topSellers := n.TopSellers
	if topSellers == nil {
		topSellers = []TopSeller{}
	}

	return &TreeNodeResp{
		ID:         n.ID,
		Name:       n.Name,
		Slug:       n.Slug,
		ParentID:   n.ParentID,
		SortOrder:  n.SortOrder,
		Children:   children,
		TopSellers: topSellers,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func childNodeToResp(c *ChildNode) ChildNodeResp {
	grandchildren := make([]LeafNodeResp, 0, len(c.Children))
	for _, gc := range c.Children {
		grandchildren = append(grandchildren, LeafNodeResp{
			ID:        gc.ID,
			Name:      gc.Name,
			Slug:      gc.Slug,
			SortOrder: gc.SortOrder,
		})
	}

	products := c.Products
	if products == nil {
		products = []ProductSummary{}
	}

	return ChildNodeResp{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		SortOrder: c.SortOrder,
		Children:  grandchildren,
		Products:  products,
	}
}

func TreeNodesToResp(nodes []TreeNode) []TreeNodeResp {
	resps := make([]TreeNodeResp, 0, len(nodes))
	for i := range nodes {
		resps = append(resps, *TreeNodeToResp(&nodes[i]))
	}
	return resps
}
