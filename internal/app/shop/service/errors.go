package service

import "errors"

var (
	// ErrInvalidCredentials - единственная ошибка всех неуспешных входов.
	// Этап отказа наружу не раскрывается
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken = errors.New("invalid or expired token")

	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailExists      = errors.New("customer with this email already exists")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryCycle    = errors.New("category parent would create a cycle")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCursor   = errors.New("invalid pagination cursor")

	ErrOrderNotFound = errors.New("order not found")
)
