package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kantin/internal/caching"
	"kantin/internal/common"
	"kantin/internal/models"
	"kantin/internal/repositories"

	"github.com/google/uuid"
)

const walletCacheTTL = 2 * time.Minute

// WalletServiceInterface defines the interface for wallet operations
type WalletServiceInterface interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)
	RequestTopup(ctx context.Context, userID uuid.UUID, amount float64) (*QRISCharge, error)
	ConfirmTopup(ctx context.Context, userID uuid.UUID, reference string) error
	Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount float64, pin string) error
}

type walletService struct {
	db       repositories.Database
	cacheSvc caching.CacheService
	qrisSvc  QRISService
}

// NewWalletService creates a new wallet service instance
func NewWalletService(db repositories.Database, cacheSvc caching.CacheService, qrisSvc QRISService) WalletServiceInterface {
	return &walletService{
		db:       db,
		cacheSvc: cacheSvc,
		qrisSvc:  qrisSvc,
	}
}

func topupKey(reference string) string {
	return fmt.Sprintf("kantin:topup:%s", reference)
}

// GetWallet returns the user's wallet, served from cache when possible.
func (s *walletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	cached, err := s.cacheSvc.GetWallet(ctx, userID)
	if err != nil {
		log.Printf("Wallet cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	wallet, err := repositories.NewWalletRepo(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}

	if err := s.cacheSvc.SetWallet(ctx, wallet, walletCacheTTL); err != nil {
		log.Printf("Wallet cache write failed: %v", err)
	}
	return wallet, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	txns, err := repositories.NewTransactionRepo(s.db).ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// RequestTopup creates a simulated QRIS charge and parks it in the cache
// until the user confirms payment. Unconfirmed charges expire with the key.
func (s *walletService) RequestTopup(ctx context.Context, userID uuid.UUID, amount float64) (*QRISCharge, error) {
	if err := common.ValidateAmount(amount, "amount"); err != nil {
		return nil, err
	}

	charge, err := s.qrisSvc.CreateCharge(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	data, err := json.Marshal(charge)
	if err != nil {
		return nil, fmt.Errorf("encode charge: %w", err)
	}
	if err := s.cacheSvc.SetString(ctx, topupKey(charge.Reference), string(data), ChargeTTL); err != nil {
		return nil, fmt.Errorf("store charge: %w", err)
	}
	return charge, nil
}

// ConfirmTopup credits the wallet and appends the ledger entry for a pending
// charge, both inside one database transaction.
func (s *walletService) ConfirmTopup(ctx context.Context, userID uuid.UUID, reference string) error {
	raw, err := s.cacheSvc.GetString(ctx, topupKey(reference))
	if err != nil {
		return fmt.Errorf("load charge: %w", err)
	}
	if raw == "" {
		return ErrChargeNotFound
	}

	var charge QRISCharge
	if err := json.Unmarshal([]byte(raw), &charge); err != nil {
		return fmt.Errorf("decode charge: %w", err)
	}
	if charge.UserID != userID {
		return ErrChargeNotFound
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin topup: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := repositories.NewWalletRepo(tx).Credit(ctx, userID, charge.Amount)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	if !ok {
		return ErrWalletNotFound
	}

	txn := &models.Transaction{
		ID:         uuid.New(),
		FromUserID: &userID,
		Amount:     charge.Amount,
		Type:       models.TransactionTypeTopup,
		Status:     models.TransactionStatusCompleted,
	}
	if err := repositories.NewTransactionRepo(tx).Create(ctx, txn); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit topup: %w", err)
	}

	if err := s.cacheSvc.Delete(ctx, topupKey(reference)); err != nil {
		log.Printf("Charge key cleanup failed: %v", err)
	}
	s.invalidateWallet(ctx, userID)
	return nil
}

// Transfer moves amount from sender to recipient in one database
// transaction.
//
// Sequencing: local validation, then balance check, then PIN check — the
// reverse of checkout's PIN-then-balance order. Both wallet updates and the
// ledger entry commit together.
func (s *walletService) Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount float64, pin string) error {
	if recipientID == uuid.Nil {
		return fmt.Errorf("recipient is required")
	}
	if recipientID == senderID {
		return ErrSelfTransfer
	}
	if err := common.ValidateAmount(amount, "amount"); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	walletRepo := repositories.NewWalletRepo(tx)

	sender, err := walletRepo.GetByUserID(ctx, senderID)
	if err != nil {
		return fmt.Errorf("get sender wallet: %w", err)
	}
	if sender == nil {
		return ErrWalletNotFound
	}
	if sender.Balance < amount {
		return ErrInsufficientBalance
	}
	if err := CheckPIN(sender.PINHash, pin); err != nil {
		return err
	}

	recipient, err := walletRepo.GetByUserID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("get recipient wallet: %w", err)
	}
	if recipient == nil {
		return ErrRecipientNotFound
	}

	ok, err := walletRepo.Debit(ctx, senderID, amount)
	if err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if !ok {
		return ErrInsufficientBalance
	}
	if _, err := walletRepo.Credit(ctx, recipientID, amount); err != nil {
		return fmt.Errorf("credit recipient: %w", err)
	}

	txn := &models.Transaction{
		ID:         uuid.New(),
		FromUserID: &senderID,
		ToUserID:   &recipientID,
		Amount:     amount,
		Type:       models.TransactionTypeTransfer,
		Status:     models.TransactionStatusCompleted,
	}
	if err := repositories.NewTransactionRepo(tx).Create(ctx, txn); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}

	s.invalidateWallet(ctx, senderID)
	s.invalidateWallet(ctx, recipientID)
	return nil
}

func (s *walletService) invalidateWallet(ctx context.Context, userID uuid.UUID) {
	if err := s.cacheSvc.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("Wallet cache invalidation failed: %v", err)
	}
}
