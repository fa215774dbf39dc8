package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/service"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// Login обрабатывает POST /api/auth/login.
// Любая причина отказа дает один и тот же ответ 401
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": formatValidationError(err),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid credentials",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to login",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleLogin обрабатывает POST /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req entity.GoogleAuthRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": formatValidationError(err),
		})
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid credentials",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to login",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile обрабатывает GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Access token is required",
		})
		return
	}

	customer, err := h.authService.GetProfile(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Customer not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to get profile",
			})
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Verify обрабатывает GET /api/auth/verify.
// До обработчика дошли - значит middleware уже проверил токен
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, _ := c.Get("user_id")
	email, _ := c.Get("email")
	isAdmin, _ := c.Get("is_admin")

	c.JSON(http.StatusOK, entity.TokenVerifyResponse{
		Valid:   true,
		UserID:  userID.(uuid.UUID),
		Email:   email.(string),
		IsAdmin: isAdmin.(bool),
	})
}

// LoginAttempts обрабатывает GET /api/auth/attempts?email=...
// Журнал аудита доступен только администраторам
func (h *AuthHandler) LoginAttempts(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "email query parameter is required",
		})
		return
	}

	attempts, err := h.authService.ListLoginAttempts(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list login attempts",
		})
		return
	}

	if attempts == nil {
		attempts = []entity.LoginAttempt{}
	}
	c.JSON(http.StatusOK, attempts)
}

// formatValidationError возвращает описание первой ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
