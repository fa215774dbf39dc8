package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workoutshop/pkg/logger"
	"workoutshop/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	authHandler *AuthHandler,
	customerHandler *CustomerHandler,
	categoryHandler *CategoryHandler,
	productHandler *ProductHandler,
	orderHandler *OrderHandler,
	authMiddleware *AuthMiddleware,
	corsOrigins []string,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("workout-shop"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "workout-shop",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Аутентификация
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)

		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/profile", authHandler.Profile)
			protected.GET("/verify", authHandler.Verify)
		}

		// Журнал попыток входа - только администраторам
		adminOnly := auth.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			adminOnly.GET("/attempts", authHandler.LoginAttempts)
		}
	}

	// Покупатели: список открыт, карточка требует токена,
	// изменения только администраторам
	customers := api.Group("/customers")
	{
		customers.GET("", customerHandler.List)
		customers.GET("/:id", authMiddleware.Authenticate(), customerHandler.Get)

		adminOnly := customers.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			adminOnly.POST("", customerHandler.Create)
			adminOnly.PATCH("/:id", customerHandler.Update)
			adminOnly.DELETE("/:id", customerHandler.Delete)
		}
	}

	// Категории: витрина открыта, изменения только администраторам
	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)

		adminOnly := categories.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			adminOnly.POST("", categoryHandler.Create)
			adminOnly.PATCH("/:id", categoryHandler.Update)
			adminOnly.DELETE("/:id", categoryHandler.Delete)
		}
	}

	// Товары: витрина открыта, изменения только администраторам
	products := api.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.GET("/:id/related", productHandler.Related)

		adminOnly := products.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			adminOnly.POST("", productHandler.Create)
			adminOnly.PATCH("/:id", productHandler.Update)
			adminOnly.DELETE("/:id", productHandler.Delete)
		}
	}

	// Заказы: оформить может гость, остальное только администраторам
	orders := api.Group("/orders")
	{
		orders.POST("", orderHandler.Create)

		adminOnly := orders.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
		{
			adminOnly.GET("", orderHandler.List)
			adminOnly.GET("/:id", orderHandler.Get)
			adminOnly.PATCH("/:id", orderHandler.Update)
			adminOnly.DELETE("/:id", orderHandler.Delete)
		}
	}

	return router
}
