package util

import (
	"context"
	"time"

	"workoutshop/internal/app/shop/entity"
)

// CatalogCache интерфейс кеша каталога.
// Используется для dependency injection и упрощения тестирования
type CatalogCache interface {
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	SetPriceBounds(ctx context.Context, bounds entity.PriceRange, ttl time.Duration) error
	GetPriceBounds(ctx context.Context) (*entity.PriceRange, error)
	DeletePriceBounds(ctx context.Context) error
	Close() error
}
