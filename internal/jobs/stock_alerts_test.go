package jobs

import (
	"context"
	"errors"
	"testing"

	"kantin/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMenuItemRepository mocks the MenuItemRepository interface for testing
type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuItemRepository) List(ctx context.Context) ([]*models.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) ListBelowStock(ctx context.Context, threshold int) ([]*models.MenuItem, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func TestCheckLowStock_ReturnsAlertsForLowItems(t *testing.T) {
	repo := new(MockMenuItemRepository)
	svc := NewStockAlertService(repo)
	ctx := context.Background()

	low := []*models.MenuItem{
		{ID: uuid.New(), Name: "Es Teh", Price: 5000, Stock: 2},
		{ID: uuid.New(), Name: "Bakso", Price: 12000, Stock: 7},
	}
	repo.On("ListBelowStock", ctx, 10).Return(low, nil)

	alerts, err := svc.CheckLowStock(ctx, 10)

	assert.NoError(t, err)
	assert.Len(t, alerts, 2)
	assert.Equal(t, "Es Teh", alerts[0].ItemName)
	assert.Equal(t, 2, alerts[0].CurrentStock)
	assert.Equal(t, 10, alerts[0].Threshold)
}

func TestCheckLowStock_DefaultsNonPositiveThreshold(t *testing.T) {
	repo := new(MockMenuItemRepository)
	svc := NewStockAlertService(repo)
	ctx := context.Background()

	repo.On("ListBelowStock", ctx, 10).Return([]*models.MenuItem{}, nil)

	alerts, err := svc.CheckLowStock(ctx, 0)

	assert.NoError(t, err)
	assert.Empty(t, alerts)
	repo.AssertCalled(t, "ListBelowStock", ctx, 10)
}

func TestCheckLowStock_RepositoryError(t *testing.T) {
	repo := new(MockMenuItemRepository)
	svc := NewStockAlertService(repo)
	ctx := context.Background()

	repo.On("ListBelowStock", ctx, 10).Return(nil, errors.New("db down"))

	alerts, err := svc.CheckLowStock(ctx, 10)

	assert.Error(t, err)
	assert.Nil(t, alerts)
}

func TestScheduledLowStockCheck(t *testing.T) {
	repo := new(MockMenuItemRepository)
	svc := NewStockAlertService(repo)

	repo.On("ListBelowStock", mock.Anything, 10).Return([]*models.MenuItem{
		{ID: uuid.New(), Name: "Soto", Price: 14000, Stock: 1},
	}, nil)

	assert.NoError(t, svc.ScheduledLowStockCheck(context.Background()))
	repo.AssertExpectations(t)
}
