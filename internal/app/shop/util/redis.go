package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	categoriesCacheKey  = "categories:all"
	priceBoundsCacheKey = "products:price_bounds"

	serviceName = "workout-shop"
)

// RedisClient - кеш каталога: список категорий и глобальные границы цен
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает уже созданный клиент (для тестов с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := r.client.Set(ctx, categoriesCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetCategories(ctx context.Context) ([]entity.Category, error) {
	data, err := r.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, "categories")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "categories")
	return categories, nil
}

func (r *RedisClient) DeleteCategories(ctx context.Context) error {
	if err := r.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) SetPriceBounds(ctx context.Context, bounds entity.PriceRange, ttl time.Duration) error {
	data, err := json.Marshal(bounds)
	if err != nil {
		return fmt.Errorf("failed to marshal price bounds: %w", err)
	}

	if err := r.client.Set(ctx, priceBoundsCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set price bounds in cache: %w", err)
	}

	return nil
}

// GetPriceBounds возвращает (nil, nil) при промахе кеша
func (r *RedisClient) GetPriceBounds(ctx context.Context) (*entity.PriceRange, error) {
	data, err := r.client.Get(ctx, priceBoundsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, "price_bounds")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get price bounds from cache: %w", err)
	}

	var bounds entity.PriceRange
	if err := json.Unmarshal(data, &bounds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price bounds: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "price_bounds")
	return &bounds, nil
}

func (r *RedisClient) DeletePriceBounds(ctx context.Context) error {
	if err := r.client.Del(ctx, priceBoundsCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete price bounds from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
