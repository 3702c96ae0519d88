package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nutrition-backend/internal/domains/category"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *category.Category) (*category.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, c *category.Category) (*category.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockRepo) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockRepo) GetRoots(ctx context.Context, filter *category.RootFilter) ([]category.Category, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]category.Category), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) GetChildren(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID][]category.Category, error) {
	args := m.Called(ctx, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]category.Category), args.Error(1)
}

type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) FindTopSellers(ctx context.Context, categoryID uuid.UUID, limit int) ([]category.TopSeller, error) {
	args := m.Called(ctx, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.TopSeller), args.Error(1)
}

func (m *mockProductStore) FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]category.ProductSummary, error) {
	args := m.Called(ctx, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.ProductSummary), args.Error(1)
}

func emptyChildren() map[uuid.UUID][]category.Category {
	return map[uuid.UUID][]category.Category{}
}

func noProducts(products *mockProductStore) {
	products.On("FindTopSellers", mock.Anything, mock.Anything, category.TopSellerLimit).
		Return([]category.TopSeller{}, nil)
	products.On("FindActiveByCategory", mock.Anything, mock.Anything, category.ChildProductLimit).
		Return([]category.ProductSummary{}, nil)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a root category", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)
		noProducts(products)

		repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).
			Return(&category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}, nil)
		repo.On("GetChildren", ctx, mock.Anything).Return(emptyChildren(), nil)

		svc := NewCategoryService(repo, products)

		resp, err := svc.Create(ctx, &category.CreateCategoryReq{Name: "Protein"})

		require.NoError(t, err)
		assert.Equal(t, "protein", resp.Slug)
		assert.Empty(t, resp.Children)
		assert.NotNil(t, resp.TopSellers)
	})

	t.Run("rejects a missing parent before writing", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		missing := uuid.New()
		repo.On("GetByID", ctx, missing).
			Return(nil, category.Errf(category.KindNotFound, "category.GetByID", "category not found"))

		svc := NewCategoryService(repo, products)

		_, err := svc.Create(ctx, &category.CreateCategoryReq{Name: "Whey", ParentID: &missing})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindNotFound))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a parent at maximum depth", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		root := &category.Category{ID: uuid.New(), Slug: "protein"}
		child := &category.Category{ID: uuid.New(), Slug: "whey", ParentID: &root.ID}
		grandchild := &category.Category{ID: uuid.New(), Slug: "isolate", ParentID: &child.ID}

		repo.On("GetByID", ctx, grandchild.ID).Return(grandchild, nil)
		repo.On("GetByID", ctx, child.ID).Return(child, nil)
		repo.On("GetByID", ctx, root.ID).Return(root, nil)

		svc := NewCategoryService(repo, products)

		_, err := svc.Create(ctx, &category.CreateCategoryReq{Name: "Micellar", ParentID: &grandchild.ID})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindInvalidHierarchy))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("surfaces a slug conflict from the store", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		repo.On("Create", ctx, mock.Anything).
			Return(nil, category.Errf(category.KindConflict, "category.Create", "category slug already exists"))

		svc := NewCategoryService(repo, products)

		_, err := svc.Create(ctx, &category.CreateCategoryReq{Name: "Protein"})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindConflict))
	})
}

func TestUpdateParentPatch(t *testing.T) {
	ctx := context.Background()

	root := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
	other := category.Category{ID: uuid.New(), Name: "Vitamins", Slug: "vitamins"}
	child := category.Category{ID: uuid.New(), Name: "Whey", Slug: "whey", ParentID: &root.ID}

	t.Run("omitted parent keeps the current one", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)
		noProducts(products)

		current := child
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *category.Category) bool {
			return c.ParentID != nil && *c.ParentID == root.ID && c.Name == "Whey Isolate"
		})).Return(&current, nil)
		repo.On("GetChildren", ctx, mock.Anything).Return(emptyChildren(), nil)

		svc := NewCategoryService(repo, products)

		name := "Whey Isolate"
		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Name: &name})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit null promotes to root", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)
		noProducts(products)

		current := child
		promoted := current
		promoted.ParentID = nil

		repo.On("GetByID", ctx, current.ID).Return(&current, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *category.Category) bool {
			return c.ParentID == nil
		})).Return(&promoted, nil)
		repo.On("GetChildren", ctx, mock.Anything).Return(emptyChildren(), nil)

		svc := NewCategoryService(repo, products)

		resp, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Parent: category.ParentClear()})

		require.NoError(t, err)
		assert.Nil(t, resp.ParentID)
	})

	t.Run("concrete parent re-parents with guards", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)
		noProducts(products)

		current := child
		moved := current
		moved.ParentID = &other.ID

		repo.On("GetByID", ctx, current.ID).Return(&current, nil)
		repo.On("GetByID", ctx, other.ID).Return(&other, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *category.Category) bool {
			return c.ParentID != nil && *c.ParentID == other.ID
		})).Return(&moved, nil)
		repo.On("GetChildren", ctx, mock.Anything).Return(emptyChildren(), nil)

		svc := NewCategoryService(repo, products)

		resp, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Parent: category.ParentSet(other.ID)})

		require.NoError(t, err)
		require.NotNil(t, resp.ParentID)
		assert.Equal(t, other.ID, *resp.ParentID)
	})

	t.Run("self reference is rejected before writing", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		current := root
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)

		svc := NewCategoryService(repo, products)

		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Parent: category.ParentSet(current.ID)})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindSelfReference))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("moving under a descendant is rejected", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		current := root
		descendant := child
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)
		repo.On("GetByID", ctx, descendant.ID).Return(&descendant, nil)

		svc := NewCategoryService(repo, products)

		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Parent: category.ParentSet(descendant.ID)})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindCircularReference))
		repo.AssertNotCalled(t, "Update")
	})
}

func TestUpdateFieldValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty name patch before writing", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		current := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)

		svc := NewCategoryService(repo, products)

		empty := ""
		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Name: &empty})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindValidation))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("rejects a whitespace-only name patch", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		current := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)

		svc := NewCategoryService(repo, products)

		blank := "   "
		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Name: &blank})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindValidation))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("empty slug patch re-derives from the name", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)
		noProducts(products)

		current := category.Category{ID: uuid.New(), Name: "BCAA 2:1:1", Slug: "old-slug"}
		updated := current
		updated.Slug = "bcaa-2-1-1"

		repo.On("GetByID", ctx, current.ID).Return(&current, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *category.Category) bool {
			return c.Slug == "bcaa-2-1-1"
		})).Return(&updated, nil)
		repo.On("GetChildren", ctx, mock.Anything).Return(emptyChildren(), nil)

		svc := NewCategoryService(repo, products)

		empty := ""
		resp, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{Slug: &empty})

		require.NoError(t, err)
		assert.Equal(t, "bcaa-2-1-1", resp.Slug)
	})

	t.Run("rejects a negative sort order patch", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		current := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
		repo.On("GetByID", ctx, current.ID).Return(&current, nil)

		svc := NewCategoryService(repo, products)

		negative := -1
		_, err := svc.Update(ctx, current.ID, &category.UpdateCategoryReq{SortOrder: &negative})

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindValidation))
		repo.AssertNotCalled(t, "Update")
	})
}

func TestIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("composes the two-level tree with products and top sellers", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		protein := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
		whey := category.Category{ID: uuid.New(), Name: "Whey", Slug: "whey", ParentID: &protein.ID}
		isolate := category.Category{ID: uuid.New(), Name: "Isolate", Slug: "isolate", ParentID: &whey.ID}

		repo.On("GetRoots", ctx, mock.MatchedBy(func(f *category.RootFilter) bool {
			return f.Limit == 20 && f.Offset == 0
		})).Return([]category.Category{protein}, int64(1), nil)
		repo.On("GetChildren", ctx, []uuid.UUID{protein.ID}).
			Return(map[uuid.UUID][]category.Category{protein.ID: {whey}}, nil)
		repo.On("GetChildren", ctx, []uuid.UUID{whey.ID}).
			Return(map[uuid.UUID][]category.Category{whey.ID: {isolate}}, nil)

		preview := []category.ProductSummary{
			{ID: uuid.New(), Name: "Gold Standard Whey", Slug: "gold-standard-whey"},
		}
		products.On("FindActiveByCategory", ctx, whey.ID, category.ChildProductLimit).
			Return(preview, nil)

		topSellers := []category.TopSeller{
			{ID: uuid.New(), Name: "A", RatingAverage: 4.9, RatingCount: 120, Price: decimal.NewFromInt(40)},
			{ID: uuid.New(), Name: "B", RatingAverage: 4.9, RatingCount: 80, Price: decimal.NewFromInt(35)},
			{ID: uuid.New(), Name: "C", RatingAverage: 4.7, RatingCount: 300, Price: decimal.NewFromInt(30)},
		}
		products.On("FindTopSellers", ctx, protein.ID, category.TopSellerLimit).
			Return(topSellers, nil)

		svc := NewCategoryService(repo, products)

		list, err := svc.Index(ctx, 1, 20, "")

		require.NoError(t, err)
		require.Len(t, list.Categories, 1)

		node := list.Categories[0]
		assert.Equal(t, "protein", node.Slug)
		require.Len(t, node.Children, 1)
		assert.Equal(t, "whey", node.Children[0].Slug)
		require.Len(t, node.Children[0].Children, 1)
		assert.Equal(t, "isolate", node.Children[0].Children[0].Slug)
		assert.Equal(t, preview, node.Children[0].Products)

		// Aggregate order comes from the store ranking and is capped.
		require.Len(t, node.TopSellers, 3)
		assert.Equal(t, "A", node.TopSellers[0].Name)
		assert.Equal(t, "B", node.TopSellers[1].Name)
		assert.Equal(t, "C", node.TopSellers[2].Name)

		assert.Equal(t, int64(1), list.Total)
		assert.False(t, list.HasMore)
	})

	t.Run("clamps page and per-page", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		repo.On("GetRoots", ctx, mock.MatchedBy(func(f *category.RootFilter) bool {
			return f.Limit == 100 && f.Offset == 0
		})).Return([]category.Category{}, int64(0), nil)

		svc := NewCategoryService(repo, products)

		list, err := svc.Index(ctx, 0, 500, "")

		require.NoError(t, err)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 100, list.PerPage)
		assert.Empty(t, list.Categories)
	})

	t.Run("passes the search filter through", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		repo.On("GetRoots", ctx, mock.MatchedBy(func(f *category.RootFilter) bool {
			return f.Search == "prot"
		})).Return([]category.Category{}, int64(0), nil)

		svc := NewCategoryService(repo, products)

		_, err := svc.Index(ctx, 1, 20, "prot")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the pre-deletion snapshot", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		protein := category.Category{ID: uuid.New(), Name: "Protein", Slug: "protein"}
		whey := category.Category{ID: uuid.New(), Name: "Whey", Slug: "whey", ParentID: &protein.ID}

		repo.On("GetByID", ctx, protein.ID).Return(&protein, nil)
		repo.On("GetChildren", ctx, []uuid.UUID{protein.ID}).
			Return(map[uuid.UUID][]category.Category{protein.ID: {whey}}, nil)
		repo.On("GetChildren", ctx, []uuid.UUID{whey.ID}).Return(emptyChildren(), nil)
		repo.On("Delete", ctx, protein.ID).Return(&protein, nil)

		products.On("FindActiveByCategory", ctx, whey.ID, category.ChildProductLimit).
			Return([]category.ProductSummary{}, nil)
		products.On("FindTopSellers", ctx, protein.ID, category.TopSellerLimit).
			Return([]category.TopSeller{{ID: uuid.New(), Name: "A"}}, nil)

		svc := NewCategoryService(repo, products)

		snapshot, err := svc.Destroy(ctx, protein.ID)

		require.NoError(t, err)
		assert.Equal(t, "protein", snapshot.Slug)
		require.Len(t, snapshot.Children, 1)
		assert.Equal(t, "whey", snapshot.Children[0].Slug)
		assert.Len(t, snapshot.TopSellers, 1)
		repo.AssertExpectations(t)
	})

	t.Run("missing category fails without deleting", func(t *testing.T) {
		repo := new(mockRepo)
		products := new(mockProductStore)

		missing := uuid.New()
		repo.On("GetByID", ctx, missing).
			Return(nil, category.Errf(category.KindNotFound, "category.GetByID", "category not found"))

		svc := NewCategoryService(repo, products)

		_, err := svc.Destroy(ctx, missing)

		require.Error(t, err)
		assert.True(t, category.IsKind(err, category.KindNotFound))
		repo.AssertNotCalled(t, "Delete")
	})
}
