package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/internal/domains/product"
	"nutrition-backend/internal/shared/response"
)

type CartHandler struct {
	service cart.CartService
}

func NewCartHandler(service cart.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// UpdateItem handles PUT /v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req cart.UpdateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// RemoveItem handles DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	result, err := h.service.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("userID")
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

func (h *CartHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		response.NotFound(c, "Cart item not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		response.BadRequest(c, "Quantity must be positive")
	case errors.Is(err, product.ErrProductNotFound):
		response.NotFound(c, "Product not found or inactive")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
