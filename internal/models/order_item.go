package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem freezes the menu item's price at purchase time; later price
// changes on the menu do not affect existing orders.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Price      float64   `json:"price" db:"price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined menu item name for order listings.
	ItemName string `json:"item_name,omitempty"`
}
