package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "workout-shop"

type productRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{db: db}
}

// Колонки товара вместе с колонками категории и родительской категории.
// Родительская категория присоединяется ради фильтра по ее имени
const productSelect = `
	SELECT p.id, p.title, p.description, p.price, p.images, p.category_id, p.properties, p.created_at, p.updated_at,
	       c.id, c.name, c.parent_id, c.properties, c.created_at, c.updated_at
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN categories pc ON c.parent_id = pc.id
`

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	props, err := json.Marshal(product.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal product properties: %w", err)
	}

	query := `
		INSERT INTO products (id, title, description, price, images, category_id, properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.Exec(
		ctx, query,
		product.ID, product.Title, product.Description, product.Price,
		product.Images, product.CategoryID, props,
		product.CreatedAt, product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `
		SELECT id, title, description, price, images, category_id, properties, created_at, updated_at
		FROM products WHERE id = $1
	`

	var product entity.Product
	var props []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Images,
		&product.CategoryID,
		&props,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	if err := unmarshalProductProps(props, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// GetWithCategory получает товар вместе с категорией
func (r *productRepository) GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error) {
	query := productSelect + ` WHERE p.id = $1`

	pwc, err := scanProductWithCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product with category: %w", err)
	}

	return pwc, nil
}

// GetByIDs получает товары по списку ID за один запрос.
// Используется при оформлении заказа для серверного ценообразования
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	query := `
		SELECT id, title, description, price, images, category_id, properties, created_at, updated_at
		FROM products WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var product entity.Product
		var props []byte
		err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.Images,
			&product.CategoryID,
			&props,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if err := unmarshalProductProps(props, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update обновляет товар
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	props, err := json.Marshal(product.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal product properties: %w", err)
	}

	query := `
		UPDATE products
		SET title = $1, description = $2, price = $3, images = $4, category_id = $5, properties = $6, updated_at = now()
		WHERE id = $7
	`

	result, err := r.db.Exec(
		ctx, query,
		product.Title, product.Description, product.Price,
		product.Images, product.CategoryID, props, product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// List - постраничная выборка через OFFSET с фильтрами и сортировкой
func (r *productRepository) List(ctx context.Context, filter ProductFilter, limit, offset int) ([]entity.ProductWithCategory, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	where, args := buildProductWhere(filter)

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, offset)
	offsetPos := len(args)

	query := fmt.Sprintf(
		"%s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productSelect, where, orderClause(filter.SortBy), limitPos, offsetPos,
	)

	return r.queryProducts(ctx, query, args)
}

// ListAfter - курсорная выборка: товары с id строго больше lastID.
// Сортировка фиксируется по id, иначе курсор не имеет смысла
func (r *productRepository) ListAfter(ctx context.Context, filter ProductFilter, lastID uuid.UUID, limit int) ([]entity.ProductWithCategory, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	where, args := buildProductWhere(filter)

	args = append(args, lastID)
	cursorPos := len(args)
	args = append(args, limit)
	limitPos := len(args)

	query := fmt.Sprintf(
		"%s %s AND p.id > $%d ORDER BY p.id ASC LIMIT $%d",
		productSelect, where, cursorPos, limitPos,
	)

	return r.queryProducts(ctx, query, args)
}

// Count считает товары под фильтром
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	where, args := buildProductWhere(filter)

	query := fmt.Sprintf(`
		SELECT count(*)
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN categories pc ON c.parent_id = pc.id
		%s
	`, where)

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// CategoryCounts считает товары по категориям с учетом фильтра выборки
func (r *productRepository) CategoryCounts(ctx context.Context, filter ProductFilter) ([]entity.CategoryFacet, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	where, args := buildProductWhere(filter)

	query := fmt.Sprintf(`
		SELECT c.id, c.name, count(*)
		FROM products p
		JOIN categories c ON p.category_id = c.id
		LEFT JOIN categories pc ON c.parent_id = pc.id
		%s
		GROUP BY c.id, c.name
		ORDER BY count(*) DESC, c.name ASC
	`, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	defer rows.Close()

	var facets []entity.CategoryFacet
	for rows.Next() {
		var facet entity.CategoryFacet
		if err := rows.Scan(&facet.ID, &facet.Name, &facet.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category facet: %w", err)
		}
		facets = append(facets, facet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category facets: %w", err)
	}

	return facets, nil
}

// PriceBounds возвращает минимальную и максимальную цену всего каталога.
// Фильтры не применяются намеренно: границы слайдера цен стабильны
func (r *productRepository) PriceBounds(ctx context.Context) (*entity.PriceRange, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	query := `SELECT coalesce(min(price), 0), coalesce(max(price), 0) FROM products`

	var bounds entity.PriceRange
	if err := r.db.QueryRow(ctx, query).Scan(&bounds.Min, &bounds.Max); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get price bounds: %w", err)
	}

	return &bounds, nil
}

// Related возвращает товары той же категории, исключая сам товар
func (r *productRepository) Related(ctx context.Context, id uuid.UUID, limit int) ([]entity.Product, error) {
	query := `
		SELECT id, title, description, price, images, category_id, properties, created_at, updated_at
		FROM products
		WHERE category_id = (SELECT category_id FROM products WHERE id = $1)
		  AND category_id IS NOT NULL
		  AND id <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var product entity.Product
		var props []byte
		err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.Images,
			&product.CategoryID,
			&props,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if err := unmarshalProductProps(props, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related products: %w", err)
	}

	return products, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args []interface{}) ([]entity.ProductWithCategory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []entity.ProductWithCategory
	for rows.Next() {
		pwc, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *pwc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// buildProductWhere собирает WHERE из фильтра.
// Всегда возвращает непустой WHERE, чтобы вызывающие могли дописывать AND
func buildProductWhere(filter ProductFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		pos := len(args)
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d)", pos, pos))
	}

	// Категория: точный id, имя категории или имя родительской категории
	if filter.Category != "" {
		args = append(args, filter.Category)
		pos := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(p.category_id::text = $%d OR lower(c.name) = lower($%d) OR lower(pc.name) = lower($%d))",
			pos, pos, pos,
		))
	}

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
	}

	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause отображает ключ сортировки в ORDER BY.
// Неизвестный ключ дает сортировку по умолчанию - новые первыми
func orderClause(sortBy string) string {
	switch sortBy {
	case "price-asc":
		return "p.price ASC, p.id ASC"
	case "price-desc":
		return "p.price DESC, p.id ASC"
	case "name":
		return "p.title ASC, p.id ASC"
	case "newest", "featured", "":
		return "p.created_at DESC, p.id ASC"
	default:
		return "p.created_at DESC, p.id ASC"
	}
}

func unmarshalProductProps(raw []byte, product *entity.Product) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &product.Properties); err != nil {
		return fmt.Errorf("failed to unmarshal product properties: %w", err)
	}
	return nil
}

// scanProductWithCategory читает строку товара вместе с nullable-категорией
func scanProductWithCategory(row pgx.Row) (*entity.ProductWithCategory, error) {
	var pwc entity.ProductWithCategory
	var props []byte

	var catID *uuid.UUID
	var catName *string
	var catParentID *uuid.UUID
	var catProps []byte
	var catCreatedAt, catUpdatedAt *time.Time

	err := row.Scan(
		&pwc.ID,
		&pwc.Title,
		&pwc.Description,
		&pwc.Price,
		&pwc.Images,
		&pwc.CategoryID,
		&props,
		&pwc.CreatedAt,
		&pwc.UpdatedAt,
		&catID,
		&catName,
		&catParentID,
		&catProps,
		&catCreatedAt,
		&catUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalProductProps(props, &pwc.Product); err != nil {
		return nil, err
	}

	if catID != nil {
		category := entity.Category{
			ID:        *catID,
			Name:      *catName,
			ParentID:  catParentID,
			CreatedAt: *catCreatedAt,
			UpdatedAt: *catUpdatedAt,
		}
		if len(catProps) > 0 {
			if err := json.Unmarshal(catProps, &category.Properties); err != nil {
				return nil, fmt.Errorf("failed to unmarshal category properties: %w", err)
			}
		}
		pwc.Category = &category
	}

	return &pwc, nil
}
