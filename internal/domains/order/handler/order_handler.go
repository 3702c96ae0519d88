package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"nutrition-backend/internal/domains/order"
	"nutrition-backend/internal/shared/response"
)

type OrderHandler struct {
	service order.OrderService
}

func NewOrderHandler(service order.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Checkout handles POST /v1/orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req order.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, o)
}

// List handles GET /v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	o, err := h.service.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, o)
}

// UpdateTracking handles PUT /v1/admin/orders/:id/tracking
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req order.UpdateTrackingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.UpdateTracking(c.Request.Context(), orderID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, o)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("userID")
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

func (h *OrderHandler) respondError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", verr)
		return
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		response.NotFound(c, "Order not found")
	case errors.Is(err, order.ErrEmptyCart):
		response.BadRequest(c, "Cart is empty")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
