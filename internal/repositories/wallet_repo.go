package repositories

import (
	"context"
	"errors"

	"kantin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Debit(ctx context.Context, userID uuid.UUID, amount float64) (bool, error)
	Credit(ctx context.Context, userID uuid.UUID, amount float64) (bool, error)
	UpdatePINHash(ctx context.Context, userID uuid.UUID, pinHash string) error
}

type walletRepo struct {
	db DBTX
}

func NewWalletRepo(db DBTX) WalletRepository {
	return &walletRepo{db: db}
}

func (r *walletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	query := `
		INSERT INTO wallets (user_id, balance, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, wallet.UserID, wallet.Balance, wallet.PINHash)
	return err
}

func (r *walletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	query := `
		SELECT user_id, balance, pin_hash, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&wallet.UserID, &wallet.Balance, &wallet.PINHash, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return wallet, nil
}

// Debit subtracts amount only when the current balance covers it, in a single
// guarded update. Reports false when the wallet is missing or short.
func (r *walletRepo) Debit(ctx context.Context, userID uuid.UUID, amount float64) (bool, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND balance >= $1
	`
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Credit adds amount to the wallet. Reports false when no wallet row exists
// for userID.
func (r *walletRepo) Credit(ctx context.Context, userID uuid.UUID, amount float64) (bool, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *walletRepo) UpdatePINHash(ctx context.Context, userID uuid.UUID, pinHash string) error {
	query := `UPDATE wallets SET pin_hash = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.Exec(ctx, query, pinHash, userID)
	return err
}
