package util

import (
	"context"
	"testing"
	"time"

	"workoutshop/internal/app/shop/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RedisClientTestSuite тестовый suite для кеша каталога
type RedisClientTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	cache     *RedisClient
}

func TestRedisClientSuite(t *testing.T) {
	suite.Run(t, new(RedisClientTestSuite))
}

func (s *RedisClientTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.cache = NewRedisClientFromExisting(s.client)
}

func (s *RedisClientTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *RedisClientTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== Categories Cache Tests =====================

func (s *RedisClientTestSuite) TestGetCategories_Miss() {
	ctx := context.Background()

	// Act
	categories, err := s.cache.GetCategories(ctx)

	// Assert - промах кеша не ошибка
	s.NoError(err)
	s.Nil(categories)
}

func (s *RedisClientTestSuite) TestSetGetCategories() {
	ctx := context.Background()

	// Arrange
	categories := []entity.Category{
		{ID: uuid.New(), Name: "Kettlebells"},
		{ID: uuid.New(), Name: "Yoga"},
	}

	// Act
	err := s.cache.SetCategories(ctx, categories, time.Hour)
	s.NoError(err)

	result, err := s.cache.GetCategories(ctx)

	// Assert
	s.NoError(err)
	s.Len(result, 2)
	s.Equal("Kettlebells", result[0].Name)
	s.Equal(categories[0].ID, result[0].ID)
}

func (s *RedisClientTestSuite) TestDeleteCategories() {
	ctx := context.Background()

	// Arrange
	err := s.cache.SetCategories(ctx, []entity.Category{{ID: uuid.New(), Name: "Yoga"}}, time.Hour)
	s.NoError(err)

	// Act
	err = s.cache.DeleteCategories(ctx)
	s.NoError(err)

	// Assert
	result, err := s.cache.GetCategories(ctx)
	s.NoError(err)
	s.Nil(result)
}

func (s *RedisClientTestSuite) TestSetCategories_TTLExpires() {
	ctx := context.Background()

	// Arrange
	err := s.cache.SetCategories(ctx, []entity.Category{{ID: uuid.New(), Name: "Yoga"}}, time.Minute)
	s.NoError(err)

	// Act - miniredis позволяет промотать время
	s.miniRedis.FastForward(2 * time.Minute)

	// Assert
	result, err := s.cache.GetCategories(ctx)
	s.NoError(err)
	s.Nil(result)
}

// ===================== Price Bounds Cache Tests =====================

func (s *RedisClientTestSuite) TestGetPriceBounds_Miss() {
	ctx := context.Background()

	// Act
	bounds, err := s.cache.GetPriceBounds(ctx)

	// Assert
	s.NoError(err)
	s.Nil(bounds)
}

func (s *RedisClientTestSuite) TestSetGetPriceBounds() {
	ctx := context.Background()

	// Act
	err := s.cache.SetPriceBounds(ctx, entity.PriceRange{Min: 9.99, Max: 499.0}, time.Hour)
	s.NoError(err)

	bounds, err := s.cache.GetPriceBounds(ctx)

	// Assert
	s.NoError(err)
	s.NotNil(bounds)
	s.Equal(9.99, bounds.Min)
	s.Equal(499.0, bounds.Max)
}

func (s *RedisClientTestSuite) TestDeletePriceBounds() {
	ctx := context.Background()

	// Arrange
	err := s.cache.SetPriceBounds(ctx, entity.PriceRange{Min: 1.0, Max: 2.0}, time.Hour)
	s.NoError(err)

	// Act
	err = s.cache.DeletePriceBounds(ctx)
	s.NoError(err)

	// Assert
	bounds, err := s.cache.GetPriceBounds(ctx)
	s.NoError(err)
	s.Nil(bounds)
}
