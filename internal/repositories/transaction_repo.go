package repositories

import (
	"context"
	"time"

	"kantin/internal/models"

	"github.com/google/uuid"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)
	SumOrdersSince(ctx context.Context, since time.Time) (int, float64, error)
}

type transactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_user_id, to_user_id, amount, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, txn.ID, txn.FromUserID, txn.ToUserID, txn.Amount, txn.Type, txn.Status)
	return err
}

// ListByUser returns the newest ledger entries where the user is either side
// of the transaction.
func (r *transactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, amount, type, status, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		if err := rows.Scan(&txn.ID, &txn.FromUserID, &txn.ToUserID, &txn.Amount, &txn.Type, &txn.Status, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *transactionRepo) SumOrdersSince(ctx context.Context, since time.Time) (int, float64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND created_at >= $2
	`
	var count int
	var total float64
	err := r.db.QueryRow(ctx, query, models.TransactionTypeOrder, since).Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
