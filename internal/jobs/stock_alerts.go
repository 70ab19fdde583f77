package jobs

import (
	"context"
	"log"

	"kantin/internal/repositories"

	"github.com/google/uuid"
)

type StockAlertService struct {
	menuItemRepo repositories.MenuItemRepository
}

type StockAlert struct {
	MenuItemID   uuid.UUID
	ItemName     string
	CurrentStock int
	Threshold    int
}

func NewStockAlertService(menuItemRepo repositories.MenuItemRepository) *StockAlertService {
	return &StockAlertService{menuItemRepo: menuItemRepo}
}

// CheckLowStock returns an alert for every menu item at or below the threshold.
func (a *StockAlertService) CheckLowStock(ctx context.Context, threshold int) ([]StockAlert, error) {
	if threshold <= 0 {
		threshold = 10 // Default threshold
	}

	items, err := a.menuItemRepo.ListBelowStock(ctx, threshold)
	if err != nil {
		log.Printf("Failed to list low-stock menu items: %v", err)
		return nil, err
	}

	var alerts []StockAlert
	for _, item := range items {
		alerts = append(alerts, StockAlert{
			MenuItemID:   item.ID,
			ItemName:     item.Name,
			CurrentStock: item.Stock,
			Threshold:    threshold,
		})
	}

	return alerts, nil
}

func (a *StockAlertService) LogLowStockAlerts(alerts []StockAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("Low stock alerts (%d items):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Item '%s' has %d units left (threshold: %d)",
			alert.ItemName,
			alert.CurrentStock,
			alert.Threshold)
	}
}

// ScheduledLowStockCheck runs a full check-and-log pass.
func (a *StockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	log.Println("Starting scheduled low stock check")

	alerts, err := a.CheckLowStock(ctx, 10)
	if err != nil {
		log.Printf("Scheduled low stock check failed: %v", err)
		return err
	}

	a.LogLowStockAlerts(alerts)
	log.Println("Scheduled low stock check completed")
	return nil
}
