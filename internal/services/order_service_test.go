package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kantin/internal/cart"
	"kantin/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	carts    *cart.Store
	cacheSvc *MockCacheService
	svc      OrderServiceInterface
	userID   uuid.UUID
	pinHash  string
	context  context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.carts = cart.NewStore()
	suite.cacheSvc = new(MockCacheService)
	suite.svc = NewOrderService(mock, suite.carts, suite.cacheSvc)
	suite.userID = uuid.New()
	suite.context = context.Background()

	hash, err := HashPIN("123456")
	assert.NoError(suite.T(), err)
	suite.pinHash = hash
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

// fillCart puts 2x Nasi Goreng (50.00) and 1x Es Teh (30.00) into the user's
// cart, for a total of 130.00.
func (suite *OrderServiceTestSuite) fillCart() (cart.Item, cart.Item) {
	food := cart.Item{ID: uuid.New(), Name: "Nasi Goreng", Price: 50.00, Stock: 10}
	drink := cart.Item{ID: uuid.New(), Name: "Es Teh", Price: 30.00, Stock: 10}

	suite.carts.AddItem(suite.userID, food)
	suite.carts.AddItem(suite.userID, food)
	suite.carts.AddItem(suite.userID, drink)

	return food, drink
}

func (suite *OrderServiceTestSuite) expectWalletFetch(balance float64) {
	suite.mock.ExpectQuery(`SELECT user_id, balance, pin_hash`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance", "pin_hash", "created_at", "updated_at"}).
			AddRow(suite.userID, balance, suite.pinHash, time.Now(), time.Now()))
}

func (suite *OrderServiceTestSuite) TestCheckout_Success() {
	food, drink := suite.fillCart()

	suite.mock.ExpectBegin()
	suite.expectWalletFetch(130.00)

	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), suite.userID, 130.00, models.OrderStatusProcessing).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), food.ID, 2, 50.00).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, food.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), drink.ID, 1, 30.00).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(1, drink.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.mock.ExpectExec(`UPDATE wallets`).
		WithArgs(130.00, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 130.00, models.TransactionTypeOrder, models.TransactionStatusCompleted).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	suite.mock.ExpectCommit()

	suite.cacheSvc.On("InvalidateMenu", suite.context).Return(nil)
	suite.cacheSvc.On("InvalidateWallet", suite.context, suite.userID).Return(nil)

	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
	assert.Equal(suite.T(), 130.00, order.TotalAmount)
	assert.Equal(suite.T(), models.OrderStatusProcessing, order.Status)
	assert.True(suite.T(), len(suite.carts.Lines(suite.userID)) == 0, "cart must be cleared after checkout")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCheckout_OneCentShortFails() {
	suite.fillCart()

	suite.mock.ExpectBegin()
	suite.expectWalletFetch(129.99)
	suite.mock.ExpectRollback()

	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.ErrorIs(suite.T(), err, ErrInsufficientBalance)
	assert.Nil(suite.T(), order)
	assert.False(suite.T(), len(suite.carts.Lines(suite.userID)) == 0, "cart must survive a failed checkout")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet(), "no writes may happen on a short balance")
}

func (suite *OrderServiceTestSuite) TestCheckout_InvalidPINAbortsBeforeAnyWrite() {
	suite.fillCart()

	suite.mock.ExpectBegin()
	suite.expectWalletFetch(500.00)
	suite.mock.ExpectRollback()

	order, err := suite.svc.Checkout(suite.context, suite.userID, "654321")

	assert.ErrorIs(suite.T(), err, ErrInvalidPIN)
	assert.Nil(suite.T(), order)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestCheckout_EmptyCart() {
	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.ErrorIs(suite.T(), err, ErrEmptyCart)
	assert.Nil(suite.T(), order)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet(), "an empty cart must not touch the database")
}

func (suite *OrderServiceTestSuite) TestCheckout_WalletMissing() {
	suite.fillCart()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT user_id, balance, pin_hash`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance", "pin_hash", "created_at", "updated_at"}))
	suite.mock.ExpectRollback()

	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.ErrorIs(suite.T(), err, ErrWalletNotFound)
	assert.Nil(suite.T(), order)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestCheckout_StockConflictRollsBack() {
	food, _ := suite.fillCart()

	suite.mock.ExpectBegin()
	suite.expectWalletFetch(130.00)

	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), suite.userID, 130.00, models.OrderStatusProcessing).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), food.ID, 2, 50.00).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Someone else bought the last portions first.
	suite.mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(2, food.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
	assert.Nil(suite.T(), order)
	assert.False(suite.T(), len(suite.carts.Lines(suite.userID)) == 0, "cart must survive a stock conflict")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestMarkReady_Success() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.OrderStatusReady, orderID, models.OrderStatusProcessing).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.svc.MarkReady(suite.context, orderID)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestMarkReady_AlreadyReadyIsRejected() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.OrderStatusReady, orderID, models.OrderStatusProcessing).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT id, user_id, total_amount`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}).
			AddRow(orderID, suite.userID, 130.00, models.OrderStatusReady, time.Now(), time.Now()))

	err := suite.svc.MarkReady(suite.context, orderID)

	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestCompleteOrder_SkippingProcessingIsRejected() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.OrderStatusCompleted, orderID, models.OrderStatusReady).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT id, user_id, total_amount`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}).
			AddRow(orderID, suite.userID, 130.00, models.OrderStatusProcessing, time.Now(), time.Now()))

	err := suite.svc.CompleteOrder(suite.context, orderID)

	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestMarkReady_OrderNotFound() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.OrderStatusReady, orderID, models.OrderStatusProcessing).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectQuery(`SELECT id, user_id, total_amount`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}))

	err := suite.svc.MarkReady(suite.context, orderID)

	assert.ErrorIs(suite.T(), err, ErrOrderNotFound)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestListMyOrders_AttachesItems() {
	orderID := uuid.New()
	menuItemID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, user_id, total_amount`).
		WithArgs(suite.userID, 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "updated_at"}).
			AddRow(orderID, suite.userID, 50.00, models.OrderStatusProcessing, time.Now(), time.Now()))
	suite.mock.ExpectQuery(`SELECT oi\.id`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity", "price", "created_at", "name"}).
			AddRow(uuid.New(), orderID, menuItemID, 1, 50.00, time.Now(), "Nasi Goreng"))

	orders, err := suite.svc.ListMyOrders(suite.context, suite.userID, 10, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
	assert.Len(suite.T(), orders[0].Items, 1)
	assert.Equal(suite.T(), "Nasi Goreng", orders[0].Items[0].ItemName)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestSalesSummary_CacheHit() {
	cached := map[string]interface{}{"order_count": 3, "total_revenue": 90.0}
	suite.cacheSvc.On("GetSalesSummary", suite.context).Return(cached, nil)

	summary, err := suite.svc.SalesSummary(suite.context)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, summary)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet(), "a cache hit must not query the database")
}

func (suite *OrderServiceTestSuite) TestSalesSummary_CacheMiss() {
	suite.cacheSvc.On("GetSalesSummary", suite.context).Return(nil, nil)
	suite.cacheSvc.On("SetSalesSummary", suite.context, mock.Anything, 10*time.Minute).Return(nil)

	suite.mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(models.TransactionTypeOrder, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count", "coalesce"}).AddRow(3, 90.0))

	summary, err := suite.svc.SalesSummary(suite.context)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, summary["order_count"])
	assert.Equal(suite.T(), 90.0, summary["total_revenue"])
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderServiceTestSuite) TestCheckout_BeginFailure() {
	suite.fillCart()

	suite.mock.ExpectBegin().WillReturnError(errors.New("connection lost"))

	order, err := suite.svc.Checkout(suite.context, suite.userID, "123456")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), order)
}
