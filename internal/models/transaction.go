package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionTypeTopup    = "topup"
	TransactionTypeTransfer = "transfer"
	TransactionTypeOrder    = "order"

	TransactionStatusCompleted = "completed"
)

// Transaction is an append-only ledger entry. Direction is inferred from
// which of the user id fields are populated: top-ups and order payments carry
// only from_user_id, transfers carry both.
type Transaction struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	FromUserID *uuid.UUID `json:"from_user_id" db:"from_user_id"`
	ToUserID   *uuid.UUID `json:"to_user_id" db:"to_user_id"`
	Amount     float64    `json:"amount" db:"amount"`
	Type       string     `json:"type" db:"type"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
