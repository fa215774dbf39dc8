package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/infrastructure"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/pkg/metrics"

	"github.com/google/uuid"
)

// OrderService обрабатывает бизнес-логику заказов.
// Цены берутся только из каталога на сервере, присланные клиентом
// суммы игнорируются
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	kafkaProducer infrastructure.MessagePublisher
}

// NewOrderService создает новый сервис заказов
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		kafkaProducer: kafkaProducer,
	}
}

// Create оформляет заказ.
// Все позиции проверяются по каталогу, цена каждой фиксируется
// на момент оформления. Заказ и позиции сохраняются атомарно
func (s *OrderService) Create(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	priceByID := make(map[uuid.UUID]float64, len(products))
	for _, product := range products {
		priceByID[product.ID] = product.Price
	}

	var total float64
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price, ok := priceByID[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}

		items = append(items, entity.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
		total += price * float64(item.Quantity)
	}
	total = math.Round(total*100) / 100

	order := &entity.Order{
		ID:            uuid.New(),
		CustomerID:    req.CustomerID,
		Name:          req.Name,
		Email:         req.Email,
		City:          req.City,
		PostalCode:    req.PostalCode,
		StreetAddress: req.StreetAddress,
		Country:       req.Country,
		Total:         total,
		Items:         items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotalAmount.Add(total)

	event := entity.OrderEvent{
		EventType:  "ORDER_CREATED",
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		ItemsCount: len(order.Items),
		Timestamp:  time.Now(),
	}
	if err := s.publishOrderEvent(ctx, event); err != nil {
		// Заказ уже сохранен, проблемы с Kafka не критичны для основной операции
		fmt.Printf("failed to publish order created event: %v\n", err)
	}

	return order, nil
}

// GetByID получает заказ с позициями
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// List получает все заказы
func (s *OrderService) List(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.List(ctx)
}

// Update частично обновляет заказ.
// Меняются только адрес доставки, флаг оплаты и идентификатор платежа,
// позиции и сумма после оформления неизменяемы
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if req.Name != nil {
		order.Name = *req.Name
	}
	if req.Email != nil {
		order.Email = *req.Email
	}
	if req.City != nil {
		order.City = *req.City
	}
	if req.PostalCode != nil {
		order.PostalCode = *req.PostalCode
	}
	if req.StreetAddress != nil {
		order.StreetAddress = *req.StreetAddress
	}
	if req.Country != nil {
		order.Country = *req.Country
	}
	if req.Paid != nil {
		order.Paid = *req.Paid
	}
	if req.PaymentID != nil {
		order.PaymentID = *req.PaymentID
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// Delete удаляет заказ вместе с позициями
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// publishOrderEvent отправляет событие о заказе в Kafka.
// Key - это OrderID для правильного партиционирования
func (s *OrderService) publishOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
