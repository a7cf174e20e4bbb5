package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vending/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Product caching
func (s *CacheService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool, error) {
	var product models.Product
	found, err := s.Get(ctx, GenerateKey(EntityProduct, KeyID, id), &product)
	if err != nil || !found {
		return nil, false, err
	}
	return &product, true, nil
}

func (s *CacheService) SetProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return errors.New("cannot cache nil product")
	}
	return s.Set(ctx, GenerateKey(EntityProduct, KeyID, product.ID), product)
}

func (s *CacheService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, GenerateKey(EntityProduct, KeyID, id))
}

// User caching. The password hash is never serialized.
func (s *CacheService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, bool, error) {
	var user models.User
	found, err := s.Get(ctx, GenerateKey(EntityUser, KeyID, id), &user)
	if err != nil || !found {
		return nil, false, err
	}
	return &user, true, nil
}

func (s *CacheService) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, GenerateKey(EntityUser, KeyID, user.ID), user)
}

func (s *CacheService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, GenerateKey(EntityUser, KeyID, id))
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) GetStats() *redis.PoolStats {
	return s.client.PoolStats()
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
