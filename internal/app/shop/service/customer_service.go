package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/util"

	"github.com/google/uuid"
)

// CustomerService обрабатывает бизнес-логику учетных записей покупателей
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService создает новый сервис покупателей
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create создает нового покупателя.
// Уже захэшированный пароль сохраняется как есть, повторное
// хэширование сделало бы вход невозможным
func (s *CustomerService) Create(ctx context.Context, req *entity.CreateCustomerRequest) (*entity.Customer, error) {
	passwordHash, err := hashIfNeeded(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Image:        req.Image,
		IsAdmin:      req.IsAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID получает покупателя по ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List получает всех покупателей
func (s *CustomerService) List(ctx context.Context) ([]entity.Customer, error) {
	return s.customerRepo.List(ctx)
}

// Update частично обновляет покупателя.
// Отсутствующие в запросе поля не меняются
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = strings.ToLower(*req.Email)
	}
	if req.Password != nil {
		passwordHash, err := hashIfNeeded(*req.Password)
		if err != nil {
			return nil, err
		}
		customer.PasswordHash = passwordHash
	}
	if req.Image != nil {
		customer.Image = *req.Image
	}
	if req.IsAdmin != nil {
		customer.IsAdmin = *req.IsAdmin
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete удаляет покупателя
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

// EnsureAdmin создает администратора при первом запуске,
// если учетной записи с таким email еще нет
func (s *CustomerService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.customerRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrCustomerNotFound) {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	_, err = s.Create(ctx, &entity.CreateCustomerRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		IsAdmin:  true,
	})
	return err
}

// hashIfNeeded хэширует пароль, пропуская уже готовые bcrypt-хэши
func hashIfNeeded(password string) (string, error) {
	if util.IsBcryptHash(password) {
		return password, nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
