package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nutrition-backend/internal/domains/category"
	"nutrition-backend/internal/shared/response"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Index handles GET /v1/categories
// Pages over root categories, each with its nested tree and top sellers.
func (h *CategoryHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	search := strings.TrimSpace(c.Query("search"))

	list, err := h.service.Index(c.Request.Context(), page, perPage, search)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// Show handles GET /v1/categories/:id
func (h *CategoryHandler) Show(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	node, err := h.service.Show(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, node)
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	node, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, node)
}

// Update handles PUT /v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req category.UpdateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	node, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, node)
}

// Destroy handles DELETE /v1/categories/:id
// Answers with the pre-deletion snapshot of the removed subtree.
func (h *CategoryHandler) Destroy(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	node, err := h.service.Destroy(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, node)
}

func (h *CategoryHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps a domain error kind onto the HTTP surface. Internal
// failures never leak their store detail to the client.
func (h *CategoryHandler) respondError(c *gin.Context, err error) {
	status := category.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	response.ErrorResponse(c, status, errorCode(category.KindOf(err)), message)
}

func errorCode(kind category.Kind) string {
	switch kind {
	case category.KindNotFound:
		return "CATEGORY_NOT_FOUND"
	case category.KindConflict:
		return "CATEGORY_SLUG_CONFLICT"
	case category.KindInvalidHierarchy:
		return "CATEGORY_DEPTH_EXCEEDED"
	case category.KindSelfReference:
		return "CATEGORY_SELF_REFERENCE"
	case category.KindCircularReference:
		return "CATEGORY_CIRCULAR_REFERENCE"
	case category.KindValidation:
		return "CATEGORY_VALIDATION_FAILED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
