package services

import (
	"context"
	"fmt"

	"kantin/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PINService verifies wallet PINs server-side, at the trust boundary. The
// client only ever submits a PIN; it never learns or compares the hash.
type PINService interface {
	VerifyPIN(ctx context.Context, userID uuid.UUID, pin string) error
	ChangePIN(ctx context.Context, userID uuid.UUID, currentPIN, newPIN string) error
}

type pinService struct {
	walletRepo repositories.WalletRepository
}

func NewPINService(walletRepo repositories.WalletRepository) PINService {
	return &pinService{walletRepo: walletRepo}
}

// HashPIN hashes a wallet PIN for storage.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// CheckPIN compares a submitted PIN against a stored hash.
func CheckPIN(pinHash, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
		return ErrInvalidPIN
	}
	return nil
}

func (s *pinService) VerifyPIN(ctx context.Context, userID uuid.UUID, pin string) error {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}
	if wallet == nil {
		return ErrWalletNotFound
	}
	return CheckPIN(wallet.PINHash, pin)
}

func (s *pinService) ChangePIN(ctx context.Context, userID uuid.UUID, currentPIN, newPIN string) error {
	if err := s.VerifyPIN(ctx, userID, currentPIN); err != nil {
		return err
	}
	hash, err := HashPIN(newPIN)
	if err != nil {
		return err
	}
	if err := s.walletRepo.UpdatePINHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update pin hash: %w", err)
	}
	return nil
}
