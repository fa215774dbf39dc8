package repository

import (
	"context"
	"errors"
	"fmt"

	"workoutshop/internal/app/shop/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerRepository struct {
	db *pgxpool.Pool
}

// NewCustomerRepository создает новый репозиторий покупателей
func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &customerRepository{db: db}
}

// Create создает нового покупателя
func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, password_hash, image, google_id, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		ctx, query,
		customer.ID, customer.Name, customer.Email, customer.PasswordHash,
		customer.Image, customer.GoogleID, customer.IsAdmin,
		customer.CreatedAt, customer.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID получает покупателя по ID
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	query := `
		SELECT id, name, email, password_hash, image, google_id, is_admin, created_at, updated_at
		FROM customers WHERE id = $1
	`

	var customer entity.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PasswordHash,
		&customer.Image,
		&customer.GoogleID,
		&customer.IsAdmin,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by id: %w", err)
	}

	return &customer, nil
}

// GetByEmail получает покупателя по email.
// Сравнение регистронезависимое, email хранится в нижнем регистре
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	query := `
		SELECT id, name, email, password_hash, image, google_id, is_admin, created_at, updated_at
		FROM customers WHERE lower(email) = lower($1)
	`

	var customer entity.Customer
	err := r.db.QueryRow(ctx, query, email).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PasswordHash,
		&customer.Image,
		&customer.GoogleID,
		&customer.IsAdmin,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return &customer, nil
}

// Update обновляет данные покупателя
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, password_hash = $3, image = $4, google_id = $5, is_admin = $6, updated_at = now()
		WHERE id = $7
	`

	result, err := r.db.Exec(
		ctx, query,
		customer.Name, customer.Email, customer.PasswordHash,
		customer.Image, customer.GoogleID, customer.IsAdmin, customer.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// Delete удаляет покупателя
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// List получает список всех покупателей
func (r *customerRepository) List(ctx context.Context) ([]entity.Customer, error) {
	query := `
		SELECT id, name, email, password_hash, image, google_id, is_admin, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []entity.Customer
	for rows.Next() {
		var customer entity.Customer
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.PasswordHash,
			&customer.Image,
			&customer.GoogleID,
			&customer.IsAdmin,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
