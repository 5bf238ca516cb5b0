package repository

import (
	"context"

	"github.com/nkravets/eshop/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, categoryIDs []int64) ([]models.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	AdjustStock(ctx context.Context, id int64, delta int32) (newStock int32, err error)
}
