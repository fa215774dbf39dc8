package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/infrastructure"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/util"
	"workoutshop/pkg/metrics"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 12
	maxPageLimit     = 50

	relatedProductsLimit = 4

	categoriesCacheTTL  = time.Hour
	priceBoundsCacheTTL = time.Hour
)

// CatalogService обрабатывает бизнес-логику каталога.
// Координирует работу репозиториев, Redis кеша и Kafka producer
type CatalogService struct {
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	cache         util.CatalogCache
	kafkaProducer infrastructure.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	cache util.CatalogCache,
	kafkaProducer infrastructure.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию и инвалидирует кеш
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	if req.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to check parent category: %w", err)
		}
	}

	category := &entity.Category{
		ID:         uuid.New(),
		Name:       req.Name,
		ParentID:   req.ParentID,
		Properties: req.Properties,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// GetCategory получает категорию по ID
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListCategories получает все категории, сначала из кеша
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && categories != nil {
		return categories, nil
	}

	categories, err = s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		// Кеш не критичен для выдачи
		fmt.Printf("failed to cache categories: %v\n", err)
	}

	return categories, nil
}

// UpdateCategory частично обновляет категорию и инвалидирует кеш.
// ParentID с нулевым UUID снимает родителя, смена родителя
// проверяется на образование цикла
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Properties != nil {
		category.Properties = *req.Properties
	}
	if req.ParentID != nil {
		if *req.ParentID == uuid.Nil {
			category.ParentID = nil
		} else {
			if err := s.checkCategoryCycle(ctx, id, *req.ParentID); err != nil {
				return nil, err
			}
			parentID := *req.ParentID
			category.ParentID = &parentID
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return nil
}

// checkCategoryCycle проверяет, что newParent не является потомком категории.
// Поднимается по цепочке родителей от newParent до корня
func (s *CatalogService) checkCategoryCycle(ctx context.Context, categoryID, newParentID uuid.UUID) error {
	if categoryID == newParentID {
		return ErrCategoryCycle
	}

	currentID := newParentID
	for {
		parent, err := s.categoryRepo.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to check category cycle: %w", err)
		}

		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == categoryID {
			return ErrCategoryCycle
		}
		currentID = *parent.ParentID
	}
}

// === PRODUCTS ===

// CreateProduct создает новый товар
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
	}

	product := &entity.Product{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		Properties:  req.Properties,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidatePriceBoundsCache(ctx)

	return product, nil
}

// GetProduct получает товар вместе с категорией
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error) {
	product, err := s.productRepo.GetWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts выполняет выборку каталога с фильтрами и пагинацией.
// Страница считается последней, когда вернулось меньше limit товаров:
// это приближение, лишнего запроса на проверку следующей страницы нет.
// Метаданные фильтров считаются только для первой страницы без курсора
func (s *CatalogService) ListProducts(ctx context.Context, query *entity.ListProductsQuery) (*entity.ProductListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repository.ProductFilter{
		Search:   query.Search,
		Category: query.Category,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		SortBy:   query.SortBy,
	}

	var products []entity.ProductWithCategory
	var err error

	if query.Cursor {
		metrics.ProductSearches.WithLabelValues("cursor").Inc()

		lastID := uuid.Nil
		if query.LastID != "" {
			lastID, err = uuid.Parse(query.LastID)
			if err != nil {
				return nil, ErrInvalidCursor
			}
		}

		products, err = s.productRepo.ListAfter(ctx, filter, lastID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	} else {
		metrics.ProductSearches.WithLabelValues("offset").Inc()

		offset := (page - 1) * limit
		products, err = s.productRepo.List(ctx, filter, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	response := &entity.ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
		HasNext:  len(products) == limit,
	}

	if page == 1 && !query.Cursor {
		filters, err := s.buildFilters(ctx, filter)
		if err != nil {
			// Выдача важнее метаданных фильтров
			fmt.Printf("failed to build product filters: %v\n", err)
		} else {
			response.Filters = filters
		}
	}

	return response, nil
}

// GetRelatedProducts возвращает товары той же категории
func (s *CatalogService) GetRelatedProducts(ctx context.Context, id uuid.UUID) ([]entity.Product, error) {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	related, err := s.productRepo.Related(ctx, id, relatedProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}

	return related, nil
}

// UpdateProduct частично обновляет товар.
// Смена цены публикует событие PRODUCT_UPDATED и сбрасывает кеш границ цен
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldPrice := product.Price

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			product.CategoryID = nil
		} else {
			if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, fmt.Errorf("failed to check category: %w", err)
			}
			categoryID := *req.CategoryID
			product.CategoryID = &categoryID
		}
	}
	if req.Properties != nil {
		product.Properties = *req.Properties
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product.Price != oldPrice {
		s.invalidatePriceBoundsCache(ctx)

		event := entity.ProductEvent{
			EventType:  "PRODUCT_UPDATED",
			ProductID:  product.ID,
			Title:      product.Title,
			Price:      product.Price,
			CategoryID: product.CategoryID,
			Timestamp:  time.Now(),
		}
		if err := s.publishProductEvent(ctx, event); err != nil {
			// Товар уже обновлен, проблемы с Kafka не критичны для основной операции
			fmt.Printf("failed to publish product updated event: %v\n", err)
		}
	}

	return product, nil
}

// DeleteProduct удаляет товар
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidatePriceBoundsCache(ctx)

	return nil
}

// WarmFacetCache прогревает кеш категорий и границ цен.
// Вызывается по расписанию и один раз при старте
func (s *CatalogService) WarmFacetCache(ctx context.Context) error {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}

	bounds, err := s.productRepo.PriceBounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get price bounds: %w", err)
	}
	if err := s.cache.SetPriceBounds(ctx, *bounds, priceBoundsCacheTTL); err != nil {
		return fmt.Errorf("failed to cache price bounds: %w", err)
	}

	return nil
}

// buildFilters собирает метаданные фильтров: категории с количеством
// подходящих товаров и глобальные границы цен каталога
func (s *CatalogService) buildFilters(ctx context.Context, filter repository.ProductFilter) (*entity.ProductFilters, error) {
	facets, err := s.productRepo.CategoryCounts(ctx, filter)
	if err != nil {
		return nil, err
	}

	bounds, err := s.cache.GetPriceBounds(ctx)
	if err != nil || bounds == nil {
		bounds, err = s.productRepo.PriceBounds(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetPriceBounds(ctx, *bounds, priceBoundsCacheTTL); err != nil {
			fmt.Printf("failed to cache price bounds: %v\n", err)
		}
	}

	if facets == nil {
		facets = []entity.CategoryFacet{}
	}

	return &entity.ProductFilters{
		Categories: facets,
		PriceRange: *bounds,
	}, nil
}

// publishProductEvent отправляет событие о товаре в Kafka.
// Key - это ProductID для правильного партиционирования
func (s *CatalogService) publishProductEvent(ctx context.Context, event entity.ProductEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}

func (s *CatalogService) invalidateCategoriesCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		fmt.Printf("failed to invalidate categories cache: %v\n", err)
	}
}

func (s *CatalogService) invalidatePriceBoundsCache(ctx context.Context) {
	if err := s.cache.DeletePriceBounds(ctx); err != nil {
		fmt.Printf("failed to invalidate price bounds cache: %v\n", err)
	}
}
