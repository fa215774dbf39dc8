package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/repository/mocks"
	"workoutshop/internal/app/shop/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrderHandler() (*OrderHandler, *mocks.MockOrderRepository, *mocks.MockProductRepository) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	producer := new(mocks.MockMessagePublisher)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	orderService := service.NewOrderService(orderRepo, productRepo, producer)
	return NewOrderHandler(orderService), orderRepo, productRepo
}

func orderRequestBody(productID uuid.UUID, quantity int) []byte {
	body, _ := json.Marshal(entity.CreateOrderRequest{
		Name:          "Ivan Petrov",
		Email:         "ivan@example.com",
		City:          "Moscow",
		PostalCode:    "101000",
		StreetAddress: "Tverskaya 1",
		Country:       "Russia",
		Items: []entity.OrderItemRequest{
			{ProductID: productID, Quantity: quantity},
		},
	})
	return body
}

// ==================== Create Handler Tests ====================

func TestOrderHandler_Create_GuestCheckout(t *testing.T) {
	// Arrange
	handler, orderRepo, productRepo := newTestOrderHandler()

	productID := uuid.New()
	productRepo.On("GetByIDs", mock.Anything, []uuid.UUID{productID}).Return([]entity.Product{
		{ID: productID, Title: "Yoga Mat", Price: 25.50},
	}, nil)
	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(order *entity.Order) bool {
		return order.CustomerID == nil &&
			order.Total == 51.0 &&
			len(order.Items) == 1 &&
			order.Items[0].UnitPrice == 25.50
	})).Return(nil)

	router := setupTestRouter(http.MethodPost, "/api/orders", handler.Create)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(orderRequestBody(productID, 2)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)

	var order entity.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, 51.0, order.Total)
	orderRepo.AssertExpectations(t)
}

func TestOrderHandler_Create_UnknownProduct(t *testing.T) {
	// Arrange
	handler, orderRepo, productRepo := newTestOrderHandler()

	productID := uuid.New()
	productRepo.On("GetByIDs", mock.Anything, []uuid.UUID{productID}).Return([]entity.Product{}, nil)

	router := setupTestRouter(http.MethodPost, "/api/orders", handler.Create)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(orderRequestBody(productID, 1)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order contains unknown products")
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderHandler_Create_EmptyItems(t *testing.T) {
	handler, _, _ := newTestOrderHandler()

	body, _ := json.Marshal(entity.CreateOrderRequest{
		Name:          "Ivan Petrov",
		Email:         "ivan@example.com",
		City:          "Moscow",
		PostalCode:    "101000",
		StreetAddress: "Tverskaya 1",
		Country:       "Russia",
		Items:         []entity.OrderItemRequest{},
	})

	router := setupTestRouter(http.MethodPost, "/api/orders", handler.Create)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==================== Get Handler Tests ====================

func TestOrderHandler_Get_Success(t *testing.T) {
	handler, orderRepo, _ := newTestOrderHandler()

	orderID := uuid.New()
	orderRepo.On("GetWithItems", mock.Anything, orderID).Return(&entity.Order{
		ID:    orderID,
		Name:  "Ivan Petrov",
		Total: 51.0,
		Items: []entity.OrderItem{{OrderID: orderID, Quantity: 2, UnitPrice: 25.50}},
	}, nil)

	router := setupTestRouter(http.MethodGet, "/api/orders/:id", handler.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderHandler_Get_NotFound(t *testing.T) {
	handler, orderRepo, _ := newTestOrderHandler()

	orderID := uuid.New()
	orderRepo.On("GetWithItems", mock.Anything, orderID).Return(nil, repository.ErrOrderNotFound)

	router := setupTestRouter(http.MethodGet, "/api/orders/:id", handler.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==================== Update Handler Tests ====================

func TestOrderHandler_Update_ShippingAndPayment(t *testing.T) {
	// Arrange
	handler, orderRepo, _ := newTestOrderHandler()

	orderID := uuid.New()
	orderRepo.On("GetWithItems", mock.Anything, orderID).Return(&entity.Order{
		ID:   orderID,
		Name: "Ivan Petrov",
		City: "Moscow",
	}, nil)
	orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(order *entity.Order) bool {
		return order.City == "Kazan" && order.Paid && order.PaymentID == "pi_123"
	})).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"city":      "Kazan",
		"paid":      true,
		"paymentId": "pi_123",
	})

	router := setupTestRouter(http.MethodPatch, "/api/orders/:id", handler.Update)
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	orderRepo.AssertExpectations(t)
}

func TestOrderHandler_Update_NotFound(t *testing.T) {
	handler, orderRepo, _ := newTestOrderHandler()

	orderID := uuid.New()
	orderRepo.On("GetWithItems", mock.Anything, orderID).Return(nil, repository.ErrOrderNotFound)

	body, _ := json.Marshal(map[string]interface{}{"city": "Kazan"})

	router := setupTestRouter(http.MethodPatch, "/api/orders/:id", handler.Update)
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==================== Delete Handler Tests ====================

func TestOrderHandler_Delete_Success(t *testing.T) {
	handler, orderRepo, _ := newTestOrderHandler()

	orderID := uuid.New()
	orderRepo.On("Delete", mock.Anything, orderID).Return(nil)

	router := setupTestRouter(http.MethodDelete, "/api/orders/:id", handler.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	orderRepo.AssertExpectations(t)
}

func TestOrderHandler_Delete_InvalidID(t *testing.T) {
	handler, _, _ := newTestOrderHandler()

	router := setupTestRouter(http.MethodDelete, "/api/orders/:id", handler.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
