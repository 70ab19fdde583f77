package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's balance. One wallet per user; the balance is only
// mutated by the money-moving workflows, always together with a matching
// transaction row.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Balance   float64   `json:"balance" db:"balance"`
	PINHash   string    `json:"-" db:"pin_hash"` // Never serialize in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
