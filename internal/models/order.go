package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status pipeline. Transitions only move forward:
// processing -> ready -> completed.
const (
	OrderStatusProcessing = "processing"
	OrderStatusReady      = "ready"
	OrderStatusCompleted  = "completed"
)

type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Populated on read for order listings; not stored on the orders row.
	Items    []*OrderItem `json:"items,omitempty"`
	Customer *Profile     `json:"customer,omitempty"`
}

// NextStatus returns the status that follows s in the pipeline, or "" when s
// is terminal or unknown.
func NextStatus(s string) string {
	switch s {
	case OrderStatusProcessing:
		return OrderStatusReady
	case OrderStatusReady:
		return OrderStatusCompleted
	}
	return ""
}
