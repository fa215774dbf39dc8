package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/repository/mocks"
	"workoutshop/internal/app/shop/service"
	"workoutshop/internal/app/shop/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Хелперы для создания тестового окружения

func newTestAuthHandler(adminEmails []string) (*AuthHandler, *mocks.MockCustomerRepository, *mocks.MockAuditRepository) {
	customerRepo := new(mocks.MockCustomerRepository)
	auditRepo := new(mocks.MockAuditRepository)
	jwtManager := util.NewJWTManager("test-secret-key", 24*time.Hour)

	authService := service.NewAuthService(customerRepo, auditRepo, jwtManager, nil, adminEmails)
	handler := NewAuthHandler(authService)

	return handler, customerRepo, auditRepo
}

func newTestAdmin() *entity.Customer {
	hash, _ := util.HashPassword("password123")
	return &entity.Customer{
		ID:           uuid.New(),
		Name:         "Test Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
	}
}

// setupTestRouter создаёт тестовый Gin router с одним хендлером
func setupTestRouter(method, path string, handlerFunc gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	switch method {
	case http.MethodGet:
		router.GET(path, handlerFunc)
	case http.MethodPost:
		router.POST(path, handlerFunc)
	case http.MethodPatch:
		router.PATCH(path, handlerFunc)
	case http.MethodDelete:
		router.DELETE(path, handlerFunc)
	}
	return router
}

// ==================== Login Handler Tests ====================

func TestAuthHandler_Login_Success(t *testing.T) {
	// Arrange
	handler, customerRepo, auditRepo := newTestAuthHandler(nil)

	admin := newTestAdmin()
	customerRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	auditRepo.On("RecordLoginAttempt", mock.Anything, mock.AnythingOfType("*entity.LoginAttempt")).Return(nil)

	body, _ := json.Marshal(entity.LoginRequest{Email: "admin@example.com", Password: "password123"})

	router := setupTestRouter(http.MethodPost, "/api/auth/login", handler.Login)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var response entity.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, "admin@example.com", response.User.Email)
	// Хэш пароля не утекает в ответ
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAuthHandler_Login_UniformFailureResponses(t *testing.T) {
	// Неизвестный email, неверный пароль и не-администратор
	// дают байт в байт одинаковое тело ответа
	unknownBody := loginAndCapture(t, "definitely-wrong", func(repo *mocks.MockCustomerRepository) {
		repo.On("GetByEmail", mock.Anything, "admin@example.com").
			Return(nil, repository.ErrCustomerNotFound)
	})

	wrongPassBody := loginAndCapture(t, "definitely-wrong", func(repo *mocks.MockCustomerRepository) {
		admin := newTestAdmin()
		repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	})

	notAdminBody := loginAndCapture(t, "password123", func(repo *mocks.MockCustomerRepository) {
		customer := newTestAdmin()
		customer.IsAdmin = false
		repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(customer, nil)
	})

	assert.Equal(t, unknownBody, wrongPassBody)
	assert.Equal(t, unknownBody, notAdminBody)
}

// loginAndCapture выполняет вход и возвращает тело ответа об отказе
func loginAndCapture(t *testing.T, password string, setup func(*mocks.MockCustomerRepository)) string {
	t.Helper()

	handler, customerRepo, auditRepo := newTestAuthHandler(nil)
	setup(customerRepo)
	auditRepo.On("RecordLoginAttempt", mock.Anything, mock.AnythingOfType("*entity.LoginAttempt")).Return(nil).Maybe()

	body, _ := json.Marshal(entity.LoginRequest{Email: "admin@example.com", Password: password})

	router := setupTestRouter(http.MethodPost, "/api/auth/login", handler.Login)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	return rec.Body.String()
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	handler, _, _ := newTestAuthHandler(nil)

	router := setupTestRouter(http.MethodPost, "/api/auth/login", handler.Login)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_MissingEmail(t *testing.T) {
	handler, _, _ := newTestAuthHandler(nil)

	body, _ := json.Marshal(entity.LoginRequest{Password: "password123"})

	router := setupTestRouter(http.MethodPost, "/api/auth/login", handler.Login)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==================== GoogleLogin Handler Tests ====================

func TestAuthHandler_GoogleLogin_Success(t *testing.T) {
	// Arrange
	handler, customerRepo, auditRepo := newTestAuthHandler([]string{"admin@example.com"})

	customerRepo.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(nil, repository.ErrCustomerNotFound)
	customerRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Customer")).Return(nil)
	auditRepo.On("RecordLoginAttempt", mock.Anything, mock.AnythingOfType("*entity.LoginAttempt")).Return(nil)

	body, _ := json.Marshal(entity.GoogleAuthRequest{
		Email:    "admin@example.com",
		Name:     "Admin",
		GoogleID: "google-123",
	})

	router := setupTestRouter(http.MethodPost, "/api/auth/google", handler.GoogleLogin)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_GoogleLogin_NotAllowlisted(t *testing.T) {
	// Учетная запись создается, но без прав администратора вход отклоняется
	handler, customerRepo, auditRepo := newTestAuthHandler([]string{"admin@example.com"})
	customerRepo.On("GetByEmail", mock.Anything, "stranger@example.com").
		Return(nil, repository.ErrCustomerNotFound)
	customerRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Customer) bool {
		return !c.IsAdmin
	})).Return(nil)
	auditRepo.On("RecordLoginAttempt", mock.Anything, mock.AnythingOfType("*entity.LoginAttempt")).Return(nil)

	body, _ := json.Marshal(entity.GoogleAuthRequest{
		Email:    "stranger@example.com",
		Name:     "Stranger",
		GoogleID: "google-999",
	})

	router := setupTestRouter(http.MethodPost, "/api/auth/google", handler.GoogleLogin)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	customerRepo.AssertExpectations(t)
}

// ==================== LoginAttempts Handler Tests ====================

func TestAuthHandler_LoginAttempts_Success(t *testing.T) {
	// Arrange
	handler, _, auditRepo := newTestAuthHandler(nil)

	attempts := []entity.LoginAttempt{
		{Email: "admin@example.com", Flow: "password", Stage: entity.AuditStageSuccess, Success: true},
		{Email: "admin@example.com", Flow: "password", Stage: entity.AuditStagePasswordCheck, Success: false},
	}
	auditRepo.On("ListByEmail", mock.Anything, "admin@example.com", 50).Return(attempts, nil)

	router := setupTestRouter(http.MethodGet, "/api/auth/attempts", handler.LoginAttempts)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/attempts?email=admin@example.com", nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var result []entity.LoginAttempt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, entity.AuditStageSuccess, result[0].Stage)
	auditRepo.AssertExpectations(t)
}

func TestAuthHandler_LoginAttempts_MissingEmail(t *testing.T) {
	handler, _, auditRepo := newTestAuthHandler(nil)

	router := setupTestRouter(http.MethodGet, "/api/auth/attempts", handler.LoginAttempts)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/attempts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	auditRepo.AssertNotCalled(t, "ListByEmail", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== Profile Handler Tests ====================

func TestAuthHandler_Profile_Success(t *testing.T) {
	// Arrange
	handler, customerRepo, _ := newTestAuthHandler(nil)

	admin := newTestAdmin()
	customerRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	router := gin.New()
	router.GET("/api/auth/profile", func(c *gin.Context) {
		c.Set("user_id", admin.ID)
		handler.Profile(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var customer entity.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))
	assert.Equal(t, admin.Email, customer.Email)
}
