package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nutrition-backend/internal/domains/category"
	"nutrition-backend/pkg/logger"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type categoryService struct {
	repo      category.CategoryRepository
	products  category.ProductStore
	validator *category.TreeValidator
}

func NewCategoryService(repo category.CategoryRepository, products category.ProductStore) category.CategoryService {
	return &categoryService{
		repo:      repo,
		products:  products,
		validator: category.NewTreeValidator(repo),
	}
}

// ============================================================
// READS
// ============================================================

// Index pages over root categories only. Each root is returned with two
// eagerly loaded child levels, per-child product previews and its
// top-seller aggregate, composed fresh for every request.
func (s *categoryService) Index(ctx context.Context, page, perPage int, search string) (*category.CategoryListResp, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	filter := &category.RootFilter{
		Search: search,
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	roots, total, err := s.repo.GetRoots(ctx, filter)
	if err != nil {
		return nil, err
	}

	nodes, err := s.composeNodes(ctx, roots)
	if err != nil {
		return nil, err
	}

	return &category.CategoryListResp{
		Categories: category.TreeNodesToResp(nodes),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		HasMore:    int64(page*perPage) < total,
	}, nil
}

func (s *categoryService) Show(ctx context.Context, id uuid.UUID) (*category.TreeNodeResp, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	node, err := s.composeNode(ctx, cat)
	if err != nil {
		return nil, err
	}
	return category.TreeNodeToResp(node), nil
}

// ============================================================
// MUTATIONS
// ============================================================

// Create runs the mutation pipeline in a fixed order: entity
// validation, parent resolution, depth check, then the transactional
// insert. The repository re-checks depth inside the transaction.
func (s *categoryService) Create(ctx context.Context, req *category.CreateCategoryReq) (*category.TreeNodeResp, error) {
	cat, err := category.NewCategory(req.Name, req.Slug, req.ParentID, req.SortOrder)
	if err != nil {
		return nil, err
	}

	if _, err := s.validator.ValidateParent(ctx, cat.ParentID); err != nil {
		return nil, err
	}

	depth, err := s.validator.ValidateDepth(ctx, cat.ParentID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, cat)
	if err != nil {
		return nil, err
	}

	logger.Info("category created", map[string]interface{}{
		"category_id": created.ID.String(),
		"slug":        created.Slug,
		"depth":       depth,
	})

	node, err := s.composeNode(ctx, created)
	if err != nil {
		return nil, err
	}
	return category.TreeNodeToResp(node), nil
}

// Update applies a partial patch. The parent reference is three-state:
// absent keeps the current parent, null promotes to root, a concrete id
// re-parents. Re-parenting runs the full guard chain (existence, cycle,
// depth) before the transactional write.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *category.UpdateCategoryReq) (*category.TreeNodeResp, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Parent.Provided() {
		newParent := req.Parent.Value()

		if _, err := s.validator.ValidateParent(ctx, newParent); err != nil {
			return nil, err
		}
		if err := s.validator.ValidateNoCycle(ctx, id, newParent); err != nil {
			return nil, err
		}
		if _, err := s.validator.ValidateDepth(ctx, newParent); err != nil {
			return nil, err
		}

		cat.ParentID = newParent
	}

	// Patch fields pass the same entity validation as creation, so an
	// explicit empty string cannot strip a persisted name or slug.
	if req.Name != nil {
		name, err := category.NormalizeName(*req.Name)
		if err != nil {
			return nil, err
		}
		cat.Name = name
	}
	if req.Slug != nil {
		slug, err := category.NormalizeSlug(*req.Slug, cat.Name)
		if err != nil {
			return nil, err
		}
		cat.Slug = slug
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			return nil, category.Errf(category.KindValidation, "category.Update", "field 'sort_order' must not be negative (got %d)", *req.SortOrder)
		}
		cat.SortOrder = *req.SortOrder
	}
	cat.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, cat)
	if err != nil {
		return nil, err
	}

	logger.Info("category updated", map[string]interface{}{
		"category_id": updated.ID.String(),
		"slug":        updated.Slug,
	})

	node, err := s.composeNode(ctx, updated)
	if err != nil {
		return nil, err
	}
	return category.TreeNodeToResp(node), nil
}

// Destroy composes the full snapshot (children and top sellers) before
// the transactional delete, then returns that snapshot. Descendants are
// removed by the store cascade.
func (s *categoryService) Destroy(ctx context.Context, id uuid.UUID) (*category.TreeNodeResp, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.composeNode(ctx, cat)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	logger.Info("category deleted", map[string]interface{}{
		"category_id": id.String(),
		"slug":        cat.Slug,
		"children":    len(snapshot.Children),
	})

	return category.TreeNodeToResp(snapshot), nil
}

// ============================================================
// TREE COMPOSITION
// ============================================================

func (s *categoryService) composeNode(ctx context.Context, cat *category.Category) (*category.TreeNode, error) {
	nodes, err := s.composeNodes(ctx, []category.Category{*cat})
	if err != nil {
		return nil, err
	}
	return &nodes[0], nil
}

// composeNodes builds the read-model for a batch of categories with two
// child-level fetches total, regardless of batch size. Products and top
// sellers are fetched per node.
func (s *categoryService) composeNodes(ctx context.Context, cats []category.Category) ([]category.TreeNode, error) {
	nodes := make([]category.TreeNode, 0, len(cats))
	if len(cats) == 0 {
		return nodes, nil
	}

	parentIDs := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		parentIDs = append(parentIDs, c.ID)
	}

	childrenByParent, err := s.repo.GetChildren(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	childIDs := []uuid.UUID{}
	for _, children := range childrenByParent {
		for _, child := range children {
			childIDs = append(childIDs, child.ID)
		}
	}

	grandchildrenByParent := map[uuid.UUID][]category.Category{}
	if len(childIDs) > 0 {
		grandchildrenByParent, err = s.repo.GetChildren(ctx, childIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range cats {
		children := childrenByParent[c.ID]
		childNodes := make([]category.ChildNode, 0, len(children))

		for _, child := range children {
			products, err := s.products.FindActiveByCategory(ctx, child.ID, category.ChildProductLimit)
			if err != nil {
				return nil, err
			}

			childNodes = append(childNodes, category.ChildNode{
				Category: child,
				Children: grandchildrenByParent[child.ID],
				Products: products,
			})
		}

		topSellers, err := s.products.FindTopSellers(ctx, c.ID, category.TopSellerLimit)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, category.TreeNode{
			Category:   c,
			Children:   childNodes,
			TopSellers: topSellers,
		})
	}

	return nodes, nil
}
