package repositories

import (
	"context"
	"testing"
	"time"

	"kantin/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type WalletRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    WalletRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *WalletRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewWalletRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *WalletRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestWalletRepoTestSuite(t *testing.T) {
	suite.Run(t, new(WalletRepoTestSuite))
}

func (suite *WalletRepoTestSuite) TestCreate() {
	wallet := &models.Wallet{UserID: suite.userID, Balance: 0, PINHash: "$2a$10$hash"}

	suite.mock.ExpectExec(`INSERT INTO wallets`).
		WithArgs(wallet.UserID, wallet.Balance, wallet.PINHash).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, wallet)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *WalletRepoTestSuite) TestGetByUserID_Found() {
	suite.mock.ExpectQuery(`SELECT user_id, balance, pin_hash`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance", "pin_hash", "created_at", "updated_at"}).
			AddRow(suite.userID, 75.50, "$2a$10$hash", time.Now(), time.Now()))

	wallet, err := suite.repo.GetByUserID(suite.context, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), wallet)
	assert.Equal(suite.T(), 75.50, wallet.Balance)
}

func (suite *WalletRepoTestSuite) TestGetByUserID_MissingReturnsNil() {
	suite.mock.ExpectQuery(`SELECT user_id, balance, pin_hash`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "balance", "pin_hash", "created_at", "updated_at"}))

	wallet, err := suite.repo.GetByUserID(suite.context, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), wallet)
}

func (suite *WalletRepoTestSuite) TestDebit_SufficientBalance() {
	suite.mock.ExpectExec(`UPDATE wallets`).
		WithArgs(20.00, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := suite.repo.Debit(suite.context, suite.userID, 20.00)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
}

func (suite *WalletRepoTestSuite) TestDebit_GuardRejectsShortBalance() {
	suite.mock.ExpectExec(`UPDATE wallets`).
		WithArgs(20.00, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := suite.repo.Debit(suite.context, suite.userID, 20.00)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok, "a short balance must report false, not error")
}

func (suite *WalletRepoTestSuite) TestCredit_MissingWalletReportsFalse() {
	suite.mock.ExpectExec(`UPDATE wallets`).
		WithArgs(20.00, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := suite.repo.Credit(suite.context, suite.userID, 20.00)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *WalletRepoTestSuite) TestUpdatePINHash() {
	suite.mock.ExpectExec(`UPDATE wallets SET pin_hash`).
		WithArgs("$2a$10$newhash", suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePINHash(suite.context, suite.userID, "$2a$10$newhash")
	assert.NoError(suite.T(), err)
}
