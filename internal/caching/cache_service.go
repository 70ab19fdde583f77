package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"kantin/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts the read surfaces that the workflows invalidate after a
// successful write: the menu list, per-user wallets, and the staff sales
// summary. Cached reads are refetched after invalidation, not kept consistent
// in real time.
type CacheService interface {
	// Menu caching
	GetMenuItems(ctx context.Context) ([]*models.MenuItem, error)
	SetMenuItems(ctx context.Context, items []*models.MenuItem, ttl time.Duration) error
	InvalidateMenu(ctx context.Context) error

	// Wallet caching
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet, ttl time.Duration) error
	InvalidateWallet(ctx context.Context, userID uuid.UUID) error

	// Sales summary caching (staff dashboard)
	GetSalesSummary(ctx context.Context) (map[string]interface{}, error)
	SetSalesSummary(ctx context.Context, summary map[string]interface{}, ttl time.Duration) error

	// Generic string operations, used for parking pending top-up charges
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis://host:port forms
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const (
	menuKey         = "kantin:menu"
	salesSummaryKey = "kantin:sales:summary"
)

func walletKey(userID uuid.UUID) string {
	return fmt.Sprintf("kantin:wallet:%s", userID.String())
}

func (r *redisCacheService) GetMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	data, err := r.client.Get(ctx, menuKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var items []*models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *redisCacheService) SetMenuItems(ctx context.Context, items []*models.MenuItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, menuKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateMenu(ctx context.Context) error {
	return r.client.Del(ctx, menuKey).Err()
}

func (r *redisCacheService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	data, err := r.client.Get(ctx, walletKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *redisCacheService) SetWallet(ctx context.Context, wallet *models.Wallet, ttl time.Duration) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, walletKey(wallet.UserID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateWallet(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, walletKey(userID)).Err()
}

func (r *redisCacheService) GetSalesSummary(ctx context.Context) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, salesSummaryKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var summary map[string]interface{}
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *redisCacheService) SetSalesSummary(ctx context.Context, summary map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, salesSummaryKey, data, ttl).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
