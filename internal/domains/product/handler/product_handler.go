package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nutrition-backend/internal/domains/product"
	"nutrition-backend/internal/shared/response"
)

type ProductHandler struct {
	service product.ProductService
}

func NewProductHandler(service product.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /v1/products
// Storefront listing: active products only, optionally narrowed to a
// category and a name/slug search.
func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &product.ListFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		filter.CategoryID = &id
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "Failed to list products")
		return
	}

	response.Success(c, http.StatusOK, list)
}

// GetBySlug handles GET /v1/products/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// Create handles POST /v1/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, p)
}

// Update handles PUT /v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req product.UpdateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// Delete handles DELETE /v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *ProductHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, product.ErrSlugExists):
		response.Conflict(c, "Product slug already exists")
	case errors.Is(err, product.ErrInvalidPrice):
		response.BadRequest(c, "Price must be positive")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
