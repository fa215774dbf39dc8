package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workoutshop/internal/app/shop/repository/mocks"
	"workoutshop/internal/app/shop/service"
	"workoutshop/internal/app/shop/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware() (*AuthMiddleware, *util.JWTManager) {
	jwtManager := util.NewJWTManager("test-secret-key", 24*time.Hour)
	authService := service.NewAuthService(
		new(mocks.MockCustomerRepository),
		new(mocks.MockAuditRepository),
		jwtManager, nil, nil,
	)
	return NewAuthMiddleware(authService), jwtManager
}

func protectedRouter(m *AuthMiddleware, adminOnly bool) *gin.Engine {
	router := gin.New()
	group := router.Group("")
	group.Use(m.Authenticate())
	if adminOnly {
		group.Use(m.RequireAdmin())
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	m, _ := newTestMiddleware()
	router := protectedRouter(m, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token is required")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	m, _ := newTestMiddleware()
	router := protectedRouter(m, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token is required")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	m, _ := newTestMiddleware()
	router := protectedRouter(m, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtManager := util.NewJWTManager("test-secret-key", -time.Minute)
	authService := service.NewAuthService(nil, nil, jwtManager, nil, nil)
	m := NewAuthMiddleware(authService)
	router := protectedRouter(m, false)

	token, err := jwtManager.GenerateToken(uuid.New(), "admin@example.com", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	m, jwtManager := newTestMiddleware()
	router := protectedRouter(m, false)

	token, err := jwtManager.GenerateToken(uuid.New(), "admin@example.com", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_RequireAdmin_NotAdmin(t *testing.T) {
	// Не администратор получает 401, а не 403
	m, jwtManager := newTestMiddleware()
	router := protectedRouter(m, true)

	token, err := jwtManager.GenerateToken(uuid.New(), "user@example.com", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin privileges required")
}

func TestAuthMiddleware_RequireAdmin_Admin(t *testing.T) {
	m, jwtManager := newTestMiddleware()
	router := protectedRouter(m, true)

	token, err := jwtManager.GenerateToken(uuid.New(), "admin@example.com", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
