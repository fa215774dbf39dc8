package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"workoutshop/internal/app/shop/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create создает новую категорию
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	props, err := json.Marshal(category.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal category properties: %w", err)
	}

	query := `
		INSERT INTO categories (id, name, parent_id, properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(
		ctx, query,
		category.ID, category.Name, category.ParentID, props,
		category.CreatedAt, category.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID получает категорию по ID
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	query := `
		SELECT id, name, parent_id, properties, created_at, updated_at
		FROM categories WHERE id = $1
	`

	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return category, nil
}

// List получает все категории
func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	query := `
		SELECT id, name, parent_id, properties, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update обновляет категорию
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	props, err := json.Marshal(category.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal category properties: %w", err)
	}

	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, properties = $3, updated_at = now()
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, category.Name, category.ParentID, props, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete удаляет категорию.
// Товары категории остаются с category_id = NULL (ON DELETE SET NULL),
// дочерние категории отвязываются от родителя
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// scanCategory читает строку категории, разворачивая jsonb-свойства
func scanCategory(row pgx.Row) (*entity.Category, error) {
	var category entity.Category
	var props []byte

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.ParentID,
		&props,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(props) > 0 {
		if err := json.Unmarshal(props, &category.Properties); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category properties: %w", err)
		}
	}

	return &category, nil
}
