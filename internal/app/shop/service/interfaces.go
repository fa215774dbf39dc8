package service

import (
	"context"

	"workoutshop/internal/app/shop/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest, remoteAddr string) (*entity.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *entity.GoogleAuthRequest, remoteAddr string) (*entity.AuthResponse, error)
	ValidateToken(ctx context.Context, accessToken string) (*entity.TokenVerifyResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
	ListLoginAttempts(ctx context.Context, email string) ([]entity.LoginAttempt, error)
}

type CustomerServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateCustomerRequest) (*entity.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	List(ctx context.Context) ([]entity.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateCustomerRequest) (*entity.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error)
	ListProducts(ctx context.Context, query *entity.ListProductsQuery) (*entity.ProductListResponse, error)
	GetRelatedProducts(ctx context.Context, id uuid.UUID) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	WarmFacetCache(ctx context.Context) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateOrderRequest) (*entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
