package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer представляет учетную запись покупателя или администратора
type Customer struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // пустой для входа через Google
	Image        string     `json:"image,omitempty" db:"image"`
	GoogleID     string     `json:"google_id,omitempty" db:"google_id"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryProperty описывает атрибут категории и допустимые значения
type CategoryProperty struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Category представляет категорию товаров
// Категории образуют дерево через ParentID, циклы запрещены на уровне сервиса
type Category struct {
	ID         uuid.UUID          `json:"id" db:"id"`
	Name       string             `json:"name" db:"name"`
	ParentID   *uuid.UUID         `json:"parent_id,omitempty" db:"parent_id"`
	Properties []CategoryProperty `json:"properties" db:"properties"` // jsonb
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" db:"updated_at"`
}

// Product представляет товар в каталоге
type Product struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Description string              `json:"description" db:"description"`
	Price       float64             `json:"price" db:"price"`
	Images      []string            `json:"images" db:"images"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty" db:"category_id"`
	Properties  map[string][]string `json:"properties" db:"properties"` // jsonb
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// ProductWithCategory содержит товар вместе с категорией
type ProductWithCategory struct {
	Product
	Category *Category `json:"category,omitempty"`
}

// Order представляет заказ. Позиции неизменяемы после создания,
// обновляются только доставка, флаг оплаты и paymentId
type Order struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID    *uuid.UUID  `json:"customer_id,omitempty" gorm:"type:uuid"` // nil для гостевого заказа
	Name          string      `json:"name" gorm:"type:varchar(200);not null"`
	Email         string      `json:"email" gorm:"type:varchar(320);not null"`
	City          string      `json:"city" gorm:"type:varchar(100);not null"`
	PostalCode    string      `json:"postal_code" gorm:"type:varchar(20);not null"`
	StreetAddress string      `json:"street_address" gorm:"type:varchar(300);not null"`
	Country       string      `json:"country" gorm:"type:varchar(100);not null"`
	Paid          bool        `json:"paid" gorm:"not null;default:false"`
	PaymentID     string      `json:"payment_id,omitempty" gorm:"type:varchar(200)"`
	Total         float64     `json:"total" gorm:"type:decimal(10,2);not null"`
	Items         []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem представляет позицию заказа.
// UnitPrice - цена товара на момент оформления, не живая ссылка
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

// TableName указывает имя таблицы для GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LoginAttempt - запись аудита попытки входа в MongoDB.
// Этап отказа различим только здесь, наружу уходит единый ответ
type LoginAttempt struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email"`
	Flow       string             `json:"flow" bson:"flow"`   // password, google
	Stage      string             `json:"stage" bson:"stage"` // см. AuditStage* константы
	Success    bool               `json:"success" bson:"success"`
	RemoteAddr string             `json:"remote_addr,omitempty" bson:"remote_addr,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// Этапы аутентификации для аудита
const (
	AuditStageCredentialLookup = "credential_lookup"
	AuditStagePasswordCheck    = "password_check"
	AuditStageAdminCheck       = "admin_check"
	AuditStageSuccess          = "success"
)

// ProductEvent представляет событие изменения товара для Kafka
type ProductEvent struct {
	EventType  string     `json:"event_type"` // PRODUCT_UPDATED
	ProductID  uuid.UUID  `json:"product_id"`
	Title      string     `json:"title"`
	Price      float64    `json:"price"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// OrderEvent представляет событие оформления заказа для Kafka
type OrderEvent struct {
	EventType  string     `json:"event_type"` // ORDER_CREATED
	OrderID    uuid.UUID  `json:"order_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Total      float64    `json:"total"`
	ItemsCount int        `json:"items_count"`
	Timestamp  time.Time  `json:"timestamp"`
}
