package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCacheWarmer мок для CacheWarmer
type MockCacheWarmer struct {
	mock.Mock
}

func (m *MockCacheWarmer) WarmFacetCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ===================== NewCronScheduler Tests =====================

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)

	// Act
	scheduler := NewCronScheduler(mockWarmer)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockWarmer, scheduler.warmer)
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()

	// Initial warmup при старте
	mockWarmer.On("WarmFacetCache", mock.Anything).Return(nil)

	// Act
	err := scheduler.Start(ctx, "0 * * * *") // Каждый час

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	// Cleanup
	scheduler.Stop()
	mockWarmer.AssertExpectations(t)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()

	// Act
	err := scheduler.Start(ctx, "invalid cron expression")

	// Assert
	assert.Error(t, err)
}

func TestCronScheduler_Start_InitialWarmupError_ContinuesWork(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()

	// Начальный прогрев падает, но планировщик продолжает работу
	mockWarmer.On("WarmFacetCache", mock.Anything).Return(errors.New("redis unavailable"))

	// Act
	err := scheduler.Start(ctx, "0 * * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	// Cleanup
	scheduler.Stop()
}

// ===================== Stop Tests =====================

func TestCronScheduler_Stop(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()
	mockWarmer.On("WarmFacetCache", mock.Anything).Return(nil)

	scheduler.Start(ctx, "0 * * * *")

	// Act
	scheduler.Stop()

	// Assert
	assert.NotNil(t, scheduler.cron)
}

// ===================== GetEntries Tests =====================

func TestCronScheduler_GetEntries_Empty(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	// Act
	entries := scheduler.GetEntries()

	// Assert
	assert.Empty(t, entries)
}

// ===================== Cron Job Execution Tests =====================

func TestCronScheduler_JobExecution(t *testing.T) {
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()

	mockWarmer.On("WarmFacetCache", mock.Anything).Return(nil)

	// Используем @every для быстрого теста
	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	// Ждём выполнения cron job
	time.Sleep(350 * time.Millisecond)

	// Cleanup
	scheduler.Stop()

	// Assert - минимум 2 вызова: initial + cron triggers
	assert.GreaterOrEqual(t, len(mockWarmer.Calls), 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	// Cron job продолжает работать даже при ошибках
	// Arrange
	mockWarmer := new(MockCacheWarmer)
	scheduler := NewCronScheduler(mockWarmer)

	ctx := context.Background()

	mockWarmer.On("WarmFacetCache", mock.Anything).Return(errors.New("redis error"))

	err := scheduler.Start(ctx, "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	// Assert - несмотря на ошибки, вызовы продолжаются
	assert.GreaterOrEqual(t, len(mockWarmer.Calls), 2)
}
