package repository

import (
	"context"
	"errors"

	"workoutshop/internal/app/shop/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmailTaken       = errors.New("email already taken")
)

// ProductFilter - набор условий выборки каталога.
// Category интерпретируется тремя способами: id категории,
// имя категории или имя родительской категории
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Customer, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List - постраничная выборка через OFFSET
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]entity.ProductWithCategory, error)
	// ListAfter - курсорная выборка: товары с id больше lastID
	ListAfter(ctx context.Context, filter ProductFilter, lastID uuid.UUID, limit int) ([]entity.ProductWithCategory, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	// CategoryCounts считает товары по категориям с учетом фильтра
	CategoryCounts(ctx context.Context, filter ProductFilter) ([]entity.CategoryFacet, error)
	// PriceBounds возвращает min/max цены по всему каталогу без фильтров
	PriceBounds(ctx context.Context) (*entity.PriceRange, error)
	// Related возвращает товары той же категории, исключая сам товар
	Related(ctx context.Context, id uuid.UUID, limit int) ([]entity.Product, error)
}

type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями в одной транзакции
	Create(ctx context.Context, order *entity.Order) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditRepository interface {
	RecordLoginAttempt(ctx context.Context, attempt *entity.LoginAttempt) error
	ListByEmail(ctx context.Context, email string, limit int) ([]entity.LoginAttempt, error)
}
