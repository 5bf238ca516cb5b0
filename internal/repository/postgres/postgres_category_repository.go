package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nkravets/eshop/internal/models"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category == nil {
		return pkgerrors.ErrNilCategory
	}
	if category.Name == "" {
		return fmt.Errorf("%w: name is required", pkgerrors.ErrInvalidInput)
	}

	query := `
	INSERT INTO categories (name, icon, color)
	VALUES ($1, $2, $3)
	RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Icon, category.Color).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, name, icon, color FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name, &category.Icon, &category.Color)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrCategoryNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon, color FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon, &category.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if category == nil {
		return pkgerrors.ErrNilCategory
	}

	query := `UPDATE categories SET name = $1, icon = $2, color = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Icon, category.Color, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrCategoryNotFound
	}
	return nil
}
