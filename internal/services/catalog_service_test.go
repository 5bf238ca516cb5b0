package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nkravets/eshop/internal/models"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid category rejected before any write", func(t *testing.T) {
		products := newFakeProductRepo()
		producer := &fakeProducer{}
		svc := NewCatalogService(products, newFakeCategoryRepo(), newFakeRedis(), producer)

		product := &models.Product{Name: "Lamp", CategoryID: 99}
		err := svc.CreateProduct(ctx, product)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCategory)
		assert.Empty(t, products.created)
		assert.Empty(t, producer.Sent())
	})

	t.Run("success persists, emits an event and drops the count cache", func(t *testing.T) {
		products := newFakeProductRepo()
		categories := newFakeCategoryRepo()
		cache := newFakeRedis()
		producer := &fakeProducer{}
		svc := NewCatalogService(products, categories, cache, producer)

		category := &models.Category{Name: "Lighting"}
		assert.NoError(t, categories.Create(ctx, category))
		assert.NoError(t, cache.Set(ctx, "products:count", "7", time.Minute))

		product := &models.Product{Name: "Lamp", CategoryID: category.ID}
		err := svc.CreateProduct(ctx, product)
		assert.NoError(t, err)
		assert.NotZero(t, product.ID)
		assert.Contains(t, cache.dels, "products:count")

		assert.Eventually(t, func() bool {
			sent := producer.Sent()
			if len(sent) != 1 {
				return false
			}
			var event struct {
				EventType string `json:"event_type"`
				ProductID int64  `json:"product_id"`
			}
			if err := json.Unmarshal(sent[0].value, &event); err != nil {
				return false
			}
			return sent[0].topic == "catalog" &&
				event.EventType == "product_created" &&
				event.ProductID == product.ID
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("nil product", func(t *testing.T) {
		svc := NewCatalogService(newFakeProductRepo(), newFakeCategoryRepo(), newFakeRedis(), &fakeProducer{})
		assert.ErrorIs(t, svc.CreateProduct(ctx, nil), pkgerrors.ErrNilProduct)
	})
}

func TestCatalogService_ProductCount(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss reads the store and caches", func(t *testing.T) {
		products := newFakeProductRepo()
		products.count = 12
		cache := newFakeRedis()
		svc := NewCatalogService(products, newFakeCategoryRepo(), cache, &fakeProducer{})

		count, err := svc.ProductCount(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)

		cached, err := cache.Get(ctx, "products:count")
		assert.NoError(t, err)
		assert.Equal(t, "12", cached)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		products := newFakeProductRepo()
		products.countErr = assert.AnError
		cache := newFakeRedis()
		assert.NoError(t, cache.Set(ctx, "products:count", "5", time.Minute))
		svc := NewCatalogService(products, newFakeCategoryRepo(), cache, &fakeProducer{})

		count, err := svc.ProductCount(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})
}

func TestCatalogService_FeaturedProducts(t *testing.T) {
	ctx := context.Background()

	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	cache := newFakeRedis()
	svc := NewCatalogService(products, categories, cache, &fakeProducer{})

	assert.NoError(t, products.Create(ctx, &models.Product{Name: "Lamp", IsFeatured: true}))
	assert.NoError(t, products.Create(ctx, &models.Product{Name: "Desk"}))

	featured, err := svc.FeaturedProducts(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, featured, 1)
	assert.Equal(t, "Lamp", featured[0].Name)

	// Second call is served from the cache.
	cached, err := cache.Get(ctx, "products:featured:10")
	assert.NoError(t, err)
	assert.NotEmpty(t, cached)

	again, err := svc.FeaturedProducts(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, featured, again)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	products := newFakeProductRepo()
	cache := newFakeRedis()
	producer := &fakeProducer{}
	svc := NewCatalogService(products, newFakeCategoryRepo(), cache, producer)

	product := &models.Product{Name: "Lamp"}
	assert.NoError(t, products.Create(ctx, product))

	assert.NoError(t, svc.DeleteProduct(ctx, product.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), pkgerrors.ErrProductNotFound)
	assert.Contains(t, cache.dels, "products:count")
}
