package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// QRISService issues payment charges for wallet top-ups.
type QRISService interface {
	CreateCharge(ctx context.Context, userID uuid.UUID, amount float64) (*QRISCharge, error)
}

// QRISCharge is a pending top-up: the user scans QRPayload, then confirms.
// Charges expire if not confirmed within the TTL.
type QRISCharge struct {
	Reference string    `json:"reference"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    float64   `json:"amount"`
	QRPayload string    `json:"qr_payload"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChargeTTL is how long a charge stays confirmable.
const ChargeTTL = 15 * time.Minute

type qrisService struct {
	merchantID string
	baseURL    string
	http       *http.Client
}

// NewQRISService creates a new QRIS payment service instance
func NewQRISService(merchantID string) QRISService {
	return &qrisService{
		merchantID: merchantID,
		baseURL:    "https://api.qris.example/v1", // acquirer API base URL
		http:       &http.Client{},
	}
}

// CreateCharge creates a QRIS charge for the given amount.
func (s *qrisService) CreateCharge(ctx context.Context, userID uuid.UUID, amount float64) (*QRISCharge, error) {
	// TODO: Implement actual acquirer API call
	// This is a placeholder implementation; no payment gateway is contacted.

	ref := fmt.Sprintf("qris_%s", uuid.NewString()[:8])
	now := time.Now()

	return &QRISCharge{
		Reference: ref,
		UserID:    userID,
		Amount:    amount,
		QRPayload: fmt.Sprintf("00020101021226%s.%s5303360", s.merchantID, ref),
		CreatedAt: now,
		ExpiresAt: now.Add(ChargeTTL),
	}, nil
}
