package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"kantin/internal/common"
	"kantin/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// Checkout handles POST /checkout
func (h *OrderHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.PIN == "" {
		return common.SendValidationError(c, "pin", "PIN is required")
	}

	order, err := h.orderService.Checkout(ctx, userID, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return common.SendClientError(c, "Cart is empty")
		case errors.Is(err, services.ErrWalletNotFound):
			return common.SendNotFoundError(c, "Wallet")
		case errors.Is(err, services.ErrInvalidPIN):
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_PIN", "Invalid PIN", nil))
		case errors.Is(err, services.ErrInsufficientBalance):
			return common.SendClientError(c, "Insufficient balance")
		case errors.Is(err, services.ErrInsufficientStock):
			return common.SendConflictError(c, "One or more items no longer have enough stock")
		}
		return common.SendServerError(c, "Failed to place order")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListMyOrders handles GET /orders
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationParams(c)
	orders, err := h.orderService.ListMyOrders(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to load orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// ListIncomingOrders handles GET /staff/orders
func (h *OrderHandlers) ListIncomingOrders(c echo.Context) error {
	limit, offset := paginationParams(c)
	orders, err := h.orderService.ListIncomingOrders(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to load orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// MarkReady handles PUT /staff/orders/:id/ready
func (h *OrderHandlers) MarkReady(c echo.Context) error {
	return h.advance(c, h.orderService.MarkReady)
}

// CompleteOrder handles PUT /staff/orders/:id/complete
func (h *OrderHandlers) CompleteOrder(c echo.Context) error {
	return h.advance(c, h.orderService.CompleteOrder)
}

// SalesSummary handles GET /staff/sales-summary
func (h *OrderHandlers) SalesSummary(c echo.Context) error {
	summary, err := h.orderService.SalesSummary(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to load sales summary")
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *OrderHandlers) advance(c echo.Context, step func(ctx context.Context, orderID uuid.UUID) error) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := step(c.Request().Context(), orderID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFoundError(c, "Order")
		case errors.Is(err, services.ErrInvalidTransition):
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to update order")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated"})
}

func paginationParams(c echo.Context) (int, int) {
	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
