package handlers

import (
	"errors"
	"net/http"

	"kantin/internal/common"
	"kantin/internal/models"
	"kantin/internal/services"

	"github.com/labstack/echo/v4"
)

// MenuHandlers handles HTTP requests for the menu
type MenuHandlers struct {
	menuService services.MenuServiceInterface
}

// NewMenuHandlers creates a new menu handlers instance
func NewMenuHandlers(menuService services.MenuServiceInterface) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

// ListMenu handles GET /menu
func (h *MenuHandlers) ListMenu(c echo.Context) error {
	items, err := h.menuService.ListMenu(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to load menu")
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem handles GET /menu/:id
func (h *MenuHandlers) GetItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.menuService.GetItem(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		return common.SendServerError(c, "Failed to load menu item")
	}
	return c.JSON(http.StatusOK, item)
}

type menuItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL *string `json:"image_url"`
}

// CreateItem handles POST /staff/menu
func (h *MenuHandlers) CreateItem(c echo.Context) error {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if err := common.ValidateAmount(req.Price, "price"); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}
	if req.Stock < 0 {
		return common.SendValidationError(c, "stock", "Stock cannot be negative")
	}

	item := &models.MenuItem{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := h.menuService.CreateItem(c.Request().Context(), item); err != nil {
		return common.SendServerError(c, "Failed to create menu item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /staff/menu/:id
func (h *MenuHandlers) UpdateItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}

	item := &models.MenuItem{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := h.menuService.UpdateItem(c.Request().Context(), item); err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		return common.SendServerError(c, "Failed to update menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /staff/menu/:id
func (h *MenuHandlers) DeleteItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.menuService.DeleteItem(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete menu item")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadItemImage handles POST /staff/menu/:id/image (multipart form, field "image")
func (h *MenuHandlers) UploadItemImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "Image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read image")
	}
	defer file.Close()

	url, err := h.menuService.UploadItemImage(c.Request().Context(), id, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		return common.SendServerError(c, "Failed to upload image")
	}
	return c.JSON(http.StatusOK, map[string]string{"image_url": url})
}
