package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nutrition-backend/internal/domains/category"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Index(ctx context.Context, page, perPage int, search string) (*category.CategoryListResp, error) {
	args := m.Called(ctx, page, perPage, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.CategoryListResp), args.Error(1)
}

func (m *mockService) Show(ctx context.Context, id uuid.UUID) (*category.TreeNodeResp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.TreeNodeResp), args.Error(1)
}

func (m *mockService) Create(ctx context.Context, req *category.CreateCategoryReq) (*category.TreeNodeResp, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.TreeNodeResp), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req *category.UpdateCategoryReq) (*category.TreeNodeResp, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.TreeNodeResp), args.Error(1)
}

func (m *mockService) Destroy(ctx context.Context, id uuid.UUID) (*category.TreeNodeResp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.TreeNodeResp), args.Error(1)
}

func setupRouter(svc category.CategoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(svc)

	r := gin.New()
	r.GET("/categories", h.Index)
	r.GET("/categories/:id", h.Show)
	r.POST("/categories", h.Create)
	r.PUT("/categories/:id", h.Update)
	r.DELETE("/categories/:id", h.Destroy)
	return r
}

func TestIndexHandler(t *testing.T) {
	svc := new(mockService)
	svc.On("Index", mock.Anything, 2, 10, "prot").
		Return(&category.CategoryListResp{
			Categories: []category.TreeNodeResp{},
			Total:      0,
			Page:       2,
			PerPage:    10,
		}, nil)

	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories?page=2&per_page=10&search=prot", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestShowHandler(t *testing.T) {
	t.Run("invalid id is a bad request", func(t *testing.T) {
		r := setupRouter(new(mockService))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/categories/not-a-uuid", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing category is 404", func(t *testing.T) {
		svc := new(mockService)
		id := uuid.New()
		svc.On("Show", mock.Anything, id).
			Return(nil, category.Errf(category.KindNotFound, "category.Show", "category not found"))

		r := setupRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/categories/"+id.String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateHandler(t *testing.T) {
	t.Run("created category returns 201", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req *category.CreateCategoryReq) bool {
			return req.Name == "Protein"
		})).Return(&category.TreeNodeResp{ID: uuid.New(), Name: "Protein", Slug: "protein"}, nil)

		r := setupRouter(svc)

		body, _ := json.Marshal(map[string]any{"name": "Protein"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("depth violation maps to 422", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, category.Errf(category.KindInvalidHierarchy, "category.Create", "maximum depth of 3 levels exceeded"))

		r := setupRouter(svc)

		body, _ := json.Marshal(map[string]any{"name": "Micellar", "parent_id": uuid.New()})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "CATEGORY_DEPTH_EXCEEDED", resp.Error.Code)
	})

	t.Run("slug conflict maps to 409", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, category.Errf(category.KindConflict, "category.Create", "category slug already exists"))

		r := setupRouter(svc)

		body, _ := json.Marshal(map[string]any{"name": "Protein"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateHandler(t *testing.T) {
	t.Run("self reference maps to 422", func(t *testing.T) {
		svc := new(mockService)
		id := uuid.New()
		svc.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, category.Errf(category.KindSelfReference, "category.Update", "category cannot be its own parent"))

		r := setupRouter(svc)

		body, _ := json.Marshal(map[string]any{"parent_id": id})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/categories/"+id.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("internal failures hide detail", func(t *testing.T) {
		svc := new(mockService)
		id := uuid.New()
		svc.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, category.WrapErr(category.KindInternal, "category.Update", "store failure", assert.AnError))

		r := setupRouter(svc)

		body, _ := json.Marshal(map[string]any{"name": "Whey"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/categories/"+id.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "store failure")
	})
}

func TestDestroyHandler(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("Destroy", mock.Anything, id).
		Return(&category.TreeNodeResp{ID: id, Name: "Protein", Slug: "protein"}, nil)

	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/categories/"+id.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "protein")
}
