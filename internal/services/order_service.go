package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"kantin/internal/caching"
	"kantin/internal/cart"
	"kantin/internal/models"
	"kantin/internal/repositories"

	"github.com/google/uuid"
)

// OrderServiceInterface defines the interface for ordering operations
type OrderServiceInterface interface {
	Checkout(ctx context.Context, userID uuid.UUID, pin string) (*models.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListIncomingOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	MarkReady(ctx context.Context, orderID uuid.UUID) error
	CompleteOrder(ctx context.Context, orderID uuid.UUID) error
	SalesSummary(ctx context.Context) (map[string]interface{}, error)
}

type orderService struct {
	db       repositories.Database
	carts    *cart.Store
	cacheSvc caching.CacheService
}

// NewOrderService creates a new order service instance
func NewOrderService(db repositories.Database, carts *cart.Store, cacheSvc caching.CacheService) OrderServiceInterface {
	return &orderService{
		db:       db,
		carts:    carts,
		cacheSvc: cacheSvc,
	}
}

// Checkout turns the user's cart into an order, paid from their wallet.
//
// The whole write sequence runs in one database transaction: order, order
// items, stock decrements, wallet debit and the ledger entry either all land
// or none do. Sequencing within the transaction: wallet fetch, PIN check,
// balance check (all before any write), then order, items with
// decrement-if-sufficient stock updates, guarded debit, ledger entry.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, pin string) (*models.Order, error) {
	lines := s.carts.Lines(userID)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	total := s.carts.Total(userID)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	walletRepo := repositories.NewWalletRepo(tx)
	orderRepo := repositories.NewOrderRepo(tx)
	itemRepo := repositories.NewOrderItemRepo(tx)
	menuRepo := repositories.NewMenuItemRepo(tx)
	txnRepo := repositories.NewTransactionRepo(tx)

	wallet, err := walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}

	// PIN before balance here; the transfer flow checks balance first.
	if err := CheckPIN(wallet.PINHash, pin); err != nil {
		return nil, err
	}
	if wallet.Balance < total {
		return nil, ErrInsufficientBalance
	}

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusProcessing,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, line := range lines {
		item := &models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: line.ID,
			Quantity:   line.Quantity,
			Price:      line.Price,
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		ok, err := menuRepo.DecrementStock(ctx, line.ID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			return nil, ErrInsufficientStock
		}
	}

	ok, err := walletRepo.Debit(ctx, userID, total)
	if err != nil {
		return nil, fmt.Errorf("debit wallet: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientBalance
	}

	txn := &models.Transaction{
		ID:         uuid.New(),
		FromUserID: &userID,
		Amount:     total,
		Type:       models.TransactionTypeOrder,
		Status:     models.TransactionStatusCompleted,
	}
	if err := txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	s.carts.Clear(userID)
	s.invalidateAfterCheckout(ctx, userID)
	return order, nil
}

// ListMyOrders returns a user's orders, newest first, with their items.
func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	orderRepo := repositories.NewOrderRepo(s.db)
	itemRepo := repositories.NewOrderItemRepo(s.db)

	orders, err := orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for _, order := range orders {
		items, err := itemRepo.ListByOrderID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		order.Items = items
	}
	return orders, nil
}

// ListIncomingOrders returns all orders for the canteen dashboard, newest
// first, with items and customer profiles attached.
func (s *orderService) ListIncomingOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	orderRepo := repositories.NewOrderRepo(s.db)
	itemRepo := repositories.NewOrderItemRepo(s.db)
	profileRepo := repositories.NewProfileRepo(s.db)

	orders, err := orderRepo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for _, order := range orders {
		items, err := itemRepo.ListByOrderID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		order.Items = items

		customer, err := profileRepo.GetByID(ctx, order.UserID)
		if err != nil {
			return nil, fmt.Errorf("get customer profile: %w", err)
		}
		order.Customer = customer
	}
	return orders, nil
}

// MarkReady advances an order from processing to ready.
func (s *orderService) MarkReady(ctx context.Context, orderID uuid.UUID) error {
	return s.advance(ctx, orderID, models.OrderStatusProcessing, models.OrderStatusReady)
}

// CompleteOrder advances an order from ready to completed.
func (s *orderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.advance(ctx, orderID, models.OrderStatusReady, models.OrderStatusCompleted)
}

// advance applies one forward step of the status pipeline. The conditional
// update rejects repeats, skips and reversals regardless of what the caller's
// UI allowed.
func (s *orderService) advance(ctx context.Context, orderID uuid.UUID, from, to string) error {
	orderRepo := repositories.NewOrderRepo(s.db)

	ok, err := orderRepo.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ok {
		return nil
	}

	order, err := orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return fmt.Errorf("%w: %s -> %s (current status %s)", ErrInvalidTransition, from, to, order.Status)
}

// SalesSummary returns today's order count and revenue for the staff
// dashboard, served from cache when the background refresh has run recently.
func (s *orderService) SalesSummary(ctx context.Context) (map[string]interface{}, error) {
	cached, err := s.cacheSvc.GetSalesSummary(ctx)
	if err != nil {
		log.Printf("Sales summary cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, total, err := repositories.NewTransactionRepo(s.db).SumOrdersSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}

	summary := map[string]interface{}{
		"order_count":   count,
		"total_revenue": total,
		"since":         startOfDay.Format(time.RFC3339),
		"refreshed_at":  now.Format(time.RFC3339),
	}
	if err := s.cacheSvc.SetSalesSummary(ctx, summary, 10*time.Minute); err != nil {
		log.Printf("Sales summary cache write failed: %v", err)
	}
	return summary, nil
}

func (s *orderService) invalidateAfterCheckout(ctx context.Context, userID uuid.UUID) {
	if err := s.cacheSvc.InvalidateMenu(ctx); err != nil {
		log.Printf("Menu cache invalidation failed: %v", err)
	}
	if err := s.cacheSvc.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("Wallet cache invalidation failed: %v", err)
	}
}
