package repositories

import (
	"context"
	"errors"

	"kantin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.MenuItem, error)
	ListBelowStock(ctx context.Context, threshold int) ([]*models.MenuItem, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}

type menuItemRepo struct {
	db DBTX
}

func NewMenuItemRepo(db DBTX) MenuItemRepository {
	return &menuItemRepo{db: db}
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, price, stock, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Price, item.Stock, item.ImageURL)
	return err
}

func (r *menuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT id, name, price, stock, image_url, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, price = $2, stock = $3, image_url = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Price, item.Stock, item.ImageURL, item.ID)
	return err
}

func (r *menuItemRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE menu_items SET image_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, imageURL, id)
	return err
}

func (r *menuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *menuItemRepo) List(ctx context.Context) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, price, stock, image_url, created_at, updated_at
		FROM menu_items
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *menuItemRepo) ListBelowStock(ctx context.Context, threshold int) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, price, stock, image_url, created_at, updated_at
		FROM menu_items
		WHERE stock <= $1
		ORDER BY stock, name
	`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DecrementStock performs an atomic decrement-if-sufficient. It reports false
// when the row is missing or the remaining stock does not cover quantity, so
// two concurrent checkouts cannot both pass on a stale read.
func (r *menuItemRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE menu_items
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
