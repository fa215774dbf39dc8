package entity

import "github.com/google/uuid"

// LoginRequest - запрос на вход по email и паролю
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleAuthRequest - данные Google-профиля после OAuth на фронтенде
type GoogleAuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Image    string `json:"image" validate:"omitempty,url"`
	GoogleID string `json:"googleId" validate:"required"`
}

// AuthResponse - ответ с токеном и профилем
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        Customer `json:"user"`
}

// TokenVerifyResponse - результат проверки токена
type TokenVerifyResponse struct {
	Valid   bool      `json:"valid"`
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}

// CreateCustomerRequest - создание покупателя администратором
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Image    string `json:"image" validate:"omitempty,url"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateCustomerRequest - частичное обновление покупателя.
// nil-поле означает "не трогать"
type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Image    *string `json:"image,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

// CreateCategoryRequest - создание категории
type CreateCategoryRequest struct {
	Name       string             `json:"name" validate:"required,min=2,max=100"`
	ParentID   *uuid.UUID         `json:"parent_id,omitempty"`
	Properties []CategoryProperty `json:"properties" validate:"omitempty,dive"`
}

// UpdateCategoryRequest - частичное обновление категории.
// ParentID со значением uuid.Nil снимает родителя
type UpdateCategoryRequest struct {
	Name       *string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	ParentID   *uuid.UUID          `json:"parent_id,omitempty"`
	Properties *[]CategoryProperty `json:"properties,omitempty" validate:"omitempty,dive"`
}

// CreateProductRequest - создание товара
type CreateProductRequest struct {
	Title       string              `json:"title" validate:"required,min=2,max=200"`
	Description string              `json:"description" validate:"omitempty,max=5000"`
	Price       float64             `json:"price" validate:"required,gte=0"`
	Images      []string            `json:"images" validate:"omitempty,dive,url"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	Properties  map[string][]string `json:"properties,omitempty"`
}

// UpdateProductRequest - частичное обновление товара
type UpdateProductRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64             `json:"price,omitempty" validate:"omitempty,gte=0"`
	Images      *[]string            `json:"images,omitempty" validate:"omitempty,dive,url"`
	CategoryID  *uuid.UUID           `json:"category_id,omitempty"`
	Properties  *map[string][]string `json:"properties,omitempty"`
}

// ListProductsQuery - параметры выборки каталога
type ListProductsQuery struct {
	Page     int      `form:"page" validate:"omitempty,gte=1"`
	Limit    int      `form:"limit" validate:"omitempty,gte=1,lte=50"`
	Search   string   `form:"search"`
	Category string   `form:"category"` // id, имя категории или имя родительской категории
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	SortBy   string   `form:"sortBy" validate:"omitempty,oneof=price-asc price-desc name newest featured"`
	Cursor   bool     `form:"cursor"`
	LastID   string   `form:"lastId"`
}

// CategoryFacet - категория с количеством подходящих товаров
type CategoryFacet struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int       `json:"count"`
}

// PriceRange - глобальные границы цен каталога
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProductFilters - метаданные фильтров для первой страницы выдачи
type ProductFilters struct {
	Categories []CategoryFacet `json:"categories"`
	PriceRange PriceRange      `json:"price_range"`
}

// ProductListResponse - страница каталога.
// HasNext в курсорном режиме - приближение "страница заполнена",
// а не точный признак наличия следующей страницы
type ProductListResponse struct {
	Products []ProductWithCategory `json:"products"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
	HasNext  bool                  `json:"has_next"`
	Filters  *ProductFilters       `json:"filters,omitempty"`
}

// OrderItemRequest - позиция корзины при оформлении заказа.
// Цена клиентом не передается и берется из каталога
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest - оформление заказа, доступно и гостю
type CreateOrderRequest struct {
	Name          string             `json:"name" validate:"required"`
	Email         string             `json:"email" validate:"required,email"`
	City          string             `json:"city" validate:"required"`
	PostalCode    string             `json:"postalCode" validate:"required"`
	StreetAddress string             `json:"streetAddress" validate:"required"`
	Country       string             `json:"country" validate:"required"`
	CustomerID    *uuid.UUID         `json:"customerId,omitempty"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest - частичное обновление заказа.
// Позиции после создания неизменяемы
type UpdateOrderRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	City          *string `json:"city,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	StreetAddress *string `json:"streetAddress,omitempty"`
	Country       *string `json:"country,omitempty"`
	Paid          *bool   `json:"paid,omitempty"`
	PaymentID     *string `json:"paymentId,omitempty"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
