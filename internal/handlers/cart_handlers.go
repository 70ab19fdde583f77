package handlers

import (
	"errors"
	"net/http"

	"kantin/internal/cart"
	"kantin/internal/common"
	"kantin/internal/services"

	"github.com/labstack/echo/v4"
)

// CartHandlers handles HTTP requests for the session cart
type CartHandlers struct {
	carts       *cart.Store
	menuService services.MenuServiceInterface
}

// NewCartHandlers creates a new cart handlers instance
func NewCartHandlers(carts *cart.Store, menuService services.MenuServiceInterface) *CartHandlers {
	return &CartHandlers{carts: carts, menuService: menuService}
}

// GetCart handles GET /cart
func (h *CartHandlers) GetCart(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	lines := h.carts.Lines(userID)
	if lines == nil {
		lines = []cart.Line{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": lines,
		"total": h.carts.Total(userID),
	})
}

// AddItem handles POST /cart/items. The menu item's price and stock are
// snapshotted into the cart line at this point.
func (h *CartHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		MenuItemID string `json:"menu_item_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	itemID, err := common.ValidateUUID(req.MenuItemID, "menu_item_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.menuService.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		return common.SendServerError(c, "Failed to load menu item")
	}
	if item.Stock == 0 {
		return common.SendClientError(c, "Item out of stock")
	}

	h.carts.AddItem(userID, cart.Item{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Stock: item.Stock,
	})
	return h.GetCart(c)
}

// UpdateQuantity handles PUT /cart/items/:id. A quantity of zero or less
// removes the line; anything above the stock snapshot is clamped.
func (h *CartHandlers) UpdateQuantity(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	h.carts.UpdateQuantity(userID, itemID, req.Quantity)
	return h.GetCart(c)
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandlers) RemoveItem(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.carts.RemoveItem(userID, itemID)
	return h.GetCart(c)
}

// ClearCart handles DELETE /cart
func (h *CartHandlers) ClearCart(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	h.carts.Clear(userID)
	return c.NoContent(http.StatusNoContent)
}
