package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kantin/internal/common"
	"kantin/internal/services"

	"github.com/labstack/echo/v4"
)

// WalletHandlers handles HTTP requests for the e-wallet
type WalletHandlers struct {
	walletService services.WalletServiceInterface
	pinService    services.PINService
}

// NewWalletHandlers creates a new wallet handlers instance
func NewWalletHandlers(walletService services.WalletServiceInterface, pinService services.PINService) *WalletHandlers {
	return &WalletHandlers{walletService: walletService, pinService: pinService}
}

// GetWallet handles GET /wallet
func (h *WalletHandlers) GetWallet(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	wallet, err := h.walletService.GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrWalletNotFound) {
			return common.SendNotFoundError(c, "Wallet")
		}
		return common.SendServerError(c, "Failed to load wallet")
	}
	return c.JSON(http.StatusOK, wallet)
}

// ListTransactions handles GET /wallet/transactions
func (h *WalletHandlers) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	txns, err := h.walletService.ListTransactions(ctx, userID, limit)
	if err != nil {
		return common.SendServerError(c, "Failed to load transactions")
	}
	return c.JSON(http.StatusOK, txns)
}

// VerifyPIN handles POST /wallet/pin/verify
func (h *WalletHandlers) VerifyPIN(c echo.Context) error {
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

	if err := h.pinService.VerifyPIN(ctx, userID, req.PIN); err != nil {
		switch {
		case errors.Is(err, services.ErrWalletNotFound):
			return common.SendNotFoundError(c, "Wallet")
		case errors.Is(err, services.ErrInvalidPIN):
			return c.JSON(http.StatusOK, map[string]bool{"valid": false})
		}
		return common.SendServerError(c, "Failed to verify PIN")
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

// ChangePIN handles PUT /wallet/pin
func (h *WalletHandlers) ChangePIN(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CurrentPIN string `json:"current_pin"`
		NewPIN     string `json:"new_pin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !pinPattern.MatchString(req.NewPIN) {
		return common.SendValidationError(c, "new_pin", "PIN must be exactly 6 digits")
	}

	if err := h.pinService.ChangePIN(ctx, userID, req.CurrentPIN, req.NewPIN); err != nil {
		switch {
		case errors.Is(err, services.ErrWalletNotFound):
			return common.SendNotFoundError(c, "Wallet")
		case errors.Is(err, services.ErrInvalidPIN):
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_PIN", "Current PIN is incorrect", nil))
		}
		return common.SendServerError(c, "Failed to change PIN")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "PIN updated"})
}

// RequestTopup handles POST /wallet/topup
func (h *WalletHandlers) RequestTopup(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	charge, err := h.walletService.RequestTopup(ctx, userID, req.Amount)
	if err != nil {
		return common.SendServerError(c, "Failed to create top-up charge")
	}
	return c.JSON(http.StatusCreated, charge)
}

// ConfirmTopup handles POST /wallet/topup/confirm
func (h *WalletHandlers) ConfirmTopup(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Reference string `json:"reference"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Reference == "" {
		return common.SendValidationError(c, "reference", "Charge reference is required")
	}

	if err := h.walletService.ConfirmTopup(ctx, userID, req.Reference); err != nil {
		switch {
		case errors.Is(err, services.ErrChargeNotFound):
			return common.SendNotFoundError(c, "Top-up charge")
		case errors.Is(err, services.ErrWalletNotFound):
			return common.SendNotFoundError(c, "Wallet")
		}
		return common.SendServerError(c, "Failed to confirm top-up")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Top-up successful"})
}

// Transfer handles POST /transfers
func (h *WalletHandlers) Transfer(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		RecipientID string  `json:"recipient_id"`
		Amount      float64 `json:"amount"`
		PIN         string  `json:"pin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	recipientID, err := common.ValidateUUID(req.RecipientID, "recipient_id")
	if err != nil {
		return common.SendValidationError(c, "recipient_id", err.Error())
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}
	if req.PIN == "" {
		return common.SendValidationError(c, "pin", "PIN is required")
	}

	if err := h.walletService.Transfer(ctx, userID, recipientID, req.Amount, req.PIN); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfTransfer):
			return common.SendClientError(c, "Cannot transfer to yourself")
		case errors.Is(err, services.ErrWalletNotFound):
			return common.SendNotFoundError(c, "Wallet")
		case errors.Is(err, services.ErrInsufficientBalance):
			return common.SendClientError(c, "Insufficient balance")
		case errors.Is(err, services.ErrInvalidPIN):
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_PIN", "Invalid PIN", nil))
		case errors.Is(err, services.ErrRecipientNotFound):
			return common.SendNotFoundError(c, "Recipient wallet")
		}
		return common.SendServerError(c, "Transfer failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Transfer successful"})
}
