package repository

import (
	"context"
	"errors"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create сохраняет заказ вместе с позициями в одной транзакции.
// Либо записывается все, либо ничего
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "orders")
	defer timer.ObserveDuration()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})

	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return err
	}

	return nil
}

// GetWithItems получает заказ с полным списком позиций
func (r *orderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// List получает все заказы с позициями, новые первыми
func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// Update обновляет заказ.
// Позиции после создания неизменяемы, пишутся только
// адрес доставки, флаг оплаты и идентификатор платежа
func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"name":           order.Name,
			"email":          order.Email,
			"city":           order.City,
			"postal_code":    order.PostalCode,
			"street_address": order.StreetAddress,
			"country":        order.Country,
			"paid":           order.Paid,
			"payment_id":     order.PaymentID,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ из PostgreSQL.
// Позиции заказа удаляются автоматически через CASCADE
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Order{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
