package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	stderrors "errors"

	"github.com/google/uuid"
	"github.com/nkravets/eshop/internal/infrastructure/kafka"
	"github.com/nkravets/eshop/internal/infrastructure/redis"
	"github.com/nkravets/eshop/internal/models"
	"github.com/nkravets/eshop/internal/repository"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const (
	catalogTopic    = "catalog"
	productCountKey = "products:count"
	countCacheTTL   = 5 * time.Minute
)

type CatalogService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, categoryIDs []int64) ([]models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ProductCount(ctx context.Context) (int64, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogService struct {
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	redisClient redis.RedisClient
	producer    kafka.KafkaProducer
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	redisClient redis.RedisClient,
	producer kafka.KafkaProducer,
) *catalogService {
	return &catalogService{
		products:    products,
		categories:  categories,
		redisClient: redisClient,
		producer:    producer,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "CreateProduct")
	defer span.End()

	if product == nil {
		return pkgerrors.ErrNilProduct
	}

	if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrCategoryNotFound) {
			span.SetStatus(codes.Error, "invalid category")
			slog.Warn("invalid category for product", "category_id", product.CategoryID)
			return pkgerrors.ErrInvalidCategory
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "category check failed")
		return fmt.Errorf("%w: failed to check category", pkgerrors.ErrInternal)
	}

	if err := s.products.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product creation failed")
		slog.Error("failed to create product", "name", product.Name, "error", err)
		return err
	}

	s.emitProductEvent(product.ID, "product_created")
	if err := s.redisClient.Del(ctx, productCountKey); err != nil {
		slog.Error("failed to invalidate product count cache", "error", err)
	}

	slog.Info("product created", "product_id", product.ID, "name", product.Name)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, categoryIDs []int64) ([]models.Product, error) {
	return s.products.List(ctx, categoryIDs)
}

func (s *catalogService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "FeaturedProducts")
	defer span.End()

	cacheKey := fmt.Sprintf("products:featured:%d", limit)
	cached, err := s.redisClient.Get(ctx, cacheKey)
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal([]byte(cached), &products); err != nil {
			slog.Error("failed to unmarshal cached featured products", "error", err)
		} else {
			return products, nil
		}
	}

	products, err := s.products.ListFeatured(ctx, limit)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to list featured products", "error", err)
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.redisClient.Set(ctx, cacheKey, string(data), countCacheTTL); err != nil {
			slog.Error("failed to cache featured products", "error", err)
		}
	}
	return products, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "UpdateProduct")
	defer span.End()

	if product == nil {
		return pkgerrors.ErrNilProduct
	}

	if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrCategoryNotFound) {
			span.SetStatus(codes.Error, "invalid category")
			return pkgerrors.ErrInvalidCategory
		}
		span.RecordError(err)
		return fmt.Errorf("%w: failed to check category", pkgerrors.ErrInternal)
	}

	if err := s.products.Update(ctx, product); err != nil {
		span.RecordError(err)
		slog.Error("failed to update product", "product_id", product.ID, "error", err)
		return err
	}

	s.emitProductEvent(product.ID, "product_updated")
	slog.Info("product updated", "product_id", product.ID)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "DeleteProduct")
	defer span.End()

	if err := s.products.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.emitProductEvent(id, "product_deleted")
	if err := s.redisClient.Del(ctx, productCountKey); err != nil {
		slog.Error("failed to invalidate product count cache", "error", err)
	}

	slog.Info("product deleted", "product_id", id)
	return nil
}

func (s *catalogService) ProductCount(ctx context.Context) (int64, error) {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "ProductCount")
	defer span.End()

	cached, err := s.redisClient.Get(ctx, productCountKey)
	if err == nil {
		count, err := strconv.ParseInt(cached, 10, 64)
		if err == nil {
			return count, nil
		}
		slog.Error("failed to parse cached product count", "value", cached, "error", err)
	}

	count, err := s.products.Count(ctx)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to count products", "error", err)
		return 0, err
	}

	if err := s.redisClient.Set(ctx, productCountKey, strconv.FormatInt(count, 10), countCacheTTL); err != nil {
		slog.Error("failed to cache product count", "error", err)
	}
	return count, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category == nil {
		return pkgerrors.ErrNilCategory
	}
	if err := s.categories.Create(ctx, category); err != nil {
		slog.Error("failed to create category", "name", category.Name, "error", err)
		return err
	}
	slog.Info("category created", "category_id", category.ID, "name", category.Name)
	return nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, category *models.Category) error {
	if category == nil {
		return pkgerrors.ErrNilCategory
	}
	return s.categories.Update(ctx, category)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// emitProductEvent publishes asynchronously with retries so catalog writes
// do not wait on the broker.
func (s *catalogService) emitProductEvent(productID int64, eventType string) {
	event := map[string]interface{}{
		"event_id":   uuid.NewString(),
		"event_type": eventType,
		"product_id": productID,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal catalog event", "product_id", productID, "error", err)
		return
	}

	go func() {
		retries := 3
		for i := 0; i < retries; i++ {
			if err := s.producer.Send(context.Background(), catalogTopic, strconv.FormatInt(productID, 10), eventBytes); err == nil {
				return
			}
			time.Sleep(time.Second * time.Duration(i+1))
		}
		slog.Error("failed to send catalog event after retries", "product_id", productID, "event_type", eventType)
	}()
}
