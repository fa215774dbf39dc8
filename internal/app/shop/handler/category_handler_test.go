package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/repository/mocks"
	"workoutshop/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestCategoryHandler() (*CategoryHandler, *mocks.MockCategoryRepository) {
	categoryRepo := new(mocks.MockCategoryRepository)
	cache := new(mocks.MockCatalogCache)
	cache.On("GetCategories", mock.Anything).Return(nil, nil).Maybe()
	cache.On("SetCategories", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("DeleteCategories", mock.Anything).Return(nil).Maybe()

	catalogService := service.NewCatalogService(categoryRepo, nil, cache, nil)
	return NewCategoryHandler(catalogService), categoryRepo
}

func testCategory() *entity.Category {
	return &entity.Category{
		ID:        uuid.New(),
		Name:      "Kettlebells",
		CreatedAt: time.Now(),
	}
}

// ==================== Get Handler Tests ====================

func TestCategoryHandler_Get_Success(t *testing.T) {
	// Arrange
	handler, categoryRepo := newTestCategoryHandler()

	category := testCategory()
	categoryRepo.On("GetByID", mock.Anything, category.ID).Return(category, nil)

	router := setupTestRouter(http.MethodGet, "/api/categories/:id", handler.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/categories/"+category.ID.String(), nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kettlebells")
}

func TestCategoryHandler_Get_InvalidID(t *testing.T) {
	handler, _ := newTestCategoryHandler()

	router := setupTestRouter(http.MethodGet, "/api/categories/:id", handler.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/categories/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==================== Delete Handler Tests ====================

func TestCategoryHandler_Delete_ThenGetNotFound(t *testing.T) {
	// Удаленная категория пропадает: повторное чтение по id дает 404
	handler, categoryRepo := newTestCategoryHandler()

	id := uuid.New()
	categoryRepo.On("Delete", mock.Anything, id).Return(nil)
	categoryRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrCategoryNotFound)

	router := gin.New()
	router.GET("/api/categories/:id", handler.Get)
	router.DELETE("/api/categories/:id", handler.Delete)

	// Act: удаление
	deleteReq := httptest.NewRequest(http.MethodDelete, "/api/categories/"+id.String(), nil)
	deleteRec := httptest.NewRecorder()
	router.ServeHTTP(deleteRec, deleteReq)

	assert.Equal(t, http.StatusOK, deleteRec.Code)
	assert.Contains(t, deleteRec.Body.String(), "Category deleted")

	// Act: повторное чтение
	getReq := httptest.NewRequest(http.MethodGet, "/api/categories/"+id.String(), nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)

	// Assert
	assert.Equal(t, http.StatusNotFound, getRec.Code)
	assert.Contains(t, getRec.Body.String(), "Category not found")
	categoryRepo.AssertExpectations(t)
}

func TestCategoryHandler_Delete_NotFound(t *testing.T) {
	handler, categoryRepo := newTestCategoryHandler()

	id := uuid.New()
	categoryRepo.On("Delete", mock.Anything, id).Return(repository.ErrCategoryNotFound)

	router := setupTestRouter(http.MethodDelete, "/api/categories/:id", handler.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category not found")
}
