package services

import "errors"

// Workflow errors surfaced to handlers. Every workflow aborts on the first of
// these it hits; the enclosing database transaction rolls back, so a failed
// workflow leaves no partial writes behind.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRecipientNotFound   = errors.New("recipient wallet not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrChargeNotFound      = errors.New("top-up charge not found or expired")
	ErrInvalidPIN          = errors.New("invalid PIN")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrSelfTransfer        = errors.New("cannot transfer to yourself")
)
