package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nkravets/eshop/internal/models"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, name, description, rich_description, image, brand, price, category_id, count_in_stock, rating, num_reviews, is_featured, created_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.RichDescription,
		&p.Image,
		&p.Brand,
		&p.Price,
		&p.CategoryID,
		&p.CountInStock,
		&p.Rating,
		&p.NumReviews,
		&p.IsFeatured,
		&p.CreatedAt,
	)
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return pkgerrors.ErrNilProduct
	}
	if product.Name == "" {
		return fmt.Errorf("%w: name is required", pkgerrors.ErrInvalidInput)
	}

	query := `
	INSERT INTO products (name, description, rich_description, image, brand, price, category_id, count_in_stock, rating, num_reviews, is_featured)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.RichDescription,
		product.Image,
		product.Brand,
		product.Price,
		product.CategoryID,
		product.CountInStock,
		product.Rating,
		product.NumReviews,
		product.IsFeatured,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return pkgerrors.ErrInvalidCategory
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product models.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &product)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrProductNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, categoryIDs []int64) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	args := []interface{}{}
	if len(categoryIDs) > 0 {
		query = `SELECT ` + productColumns + ` FROM products WHERE category_id = ANY($1) ORDER BY id`
		args = append(args, pq.Array(categoryIDs))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_featured ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return pkgerrors.ErrNilProduct
	}

	query := `
	UPDATE products
	SET name = $1, description = $2, rich_description = $3, image = $4, brand = $5, price = $6, category_id = $7, count_in_stock = $8, rating = $9, num_reviews = $10, is_featured = $11
	WHERE id = $12
	`
	res, err := r.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.RichDescription,
		product.Image,
		product.Brand,
		product.Price,
		product.CategoryID,
		product.CountInStock,
		product.Rating,
		product.NumReviews,
		product.IsFeatured,
		product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return pkgerrors.ErrInvalidCategory
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id int64, delta int32) (int32, error) {
	query := `
	UPDATE products
	SET count_in_stock = count_in_stock + $1
	WHERE id = $2 AND count_in_stock + $1 >= 0
	RETURNING count_in_stock
	`
	var newStock int32
	err := r.db.QueryRowContext(ctx, query, delta, id).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: product %d missing or stock would go negative", pkgerrors.ErrProductNotFound, id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return newStock, nil
}
