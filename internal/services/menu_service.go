package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"kantin/internal/caching"
	"kantin/internal/common"
	"kantin/internal/models"
	"kantin/internal/repositories"

	"github.com/google/uuid"
)

// MenuBucket is the MinIO bucket holding menu item images.
const MenuBucket = "menu-images"

const menuCacheTTL = 5 * time.Minute

// MenuServiceInterface defines the interface for menu operations
type MenuServiceInterface interface {
	ListMenu(ctx context.Context) ([]*models.MenuItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UploadItemImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
}

type menuService struct {
	menuRepo repositories.MenuItemRepository
	cacheSvc caching.CacheService
	minioSvc MinioService
}

func NewMenuService(menuRepo repositories.MenuItemRepository, cacheSvc caching.CacheService, minioSvc MinioService) MenuServiceInterface {
	return &menuService{
		menuRepo: menuRepo,
		cacheSvc: cacheSvc,
		minioSvc: minioSvc,
	}
}

// ListMenu returns all menu items, served from cache when possible.
func (s *menuService) ListMenu(ctx context.Context) ([]*models.MenuItem, error) {
	cached, err := s.cacheSvc.GetMenuItems(ctx)
	if err != nil {
		log.Printf("Menu cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	if err := s.cacheSvc.SetMenuItems(ctx, items, menuCacheTTL); err != nil {
		log.Printf("Menu cache write failed: %v", err)
	}
	return items, nil
}

func (s *menuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

func (s *menuService) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if err := common.ValidateAmount(item.Price, "price"); err != nil {
		return err
	}
	if item.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *menuService) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	existing, err := s.menuRepo.GetByID(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get menu item: %w", err)
	}
	if existing == nil {
		return ErrMenuItemNotFound
	}
	if err := common.ValidateAmount(item.Price, "price"); err != nil {
		return err
	}
	if item.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if item.ImageURL == nil {
		item.ImageURL = existing.ImageURL
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *menuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.invalidateMenu(ctx)
	return nil
}

// UploadItemImage stores the image in MinIO and points the item's image_url
// at a presigned GET URL.
func (s *menuService) UploadItemImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get menu item: %w", err)
	}
	if item == nil {
		return "", ErrMenuItemNotFound
	}

	objectName := id.String()
	if err := s.minioSvc.UploadImage(ctx, MenuBucket, objectName, reader, size, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	url, err := s.minioSvc.GetPresignedURL(MenuBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}

	if err := s.menuRepo.UpdateImageURL(ctx, id, url); err != nil {
		return "", fmt.Errorf("save image url: %w", err)
	}
	s.invalidateMenu(ctx)
	return url, nil
}

func (s *menuService) invalidateMenu(ctx context.Context) {
	if err := s.cacheSvc.InvalidateMenu(ctx); err != nil {
		log.Printf("Menu cache invalidation failed: %v", err)
	}
}
