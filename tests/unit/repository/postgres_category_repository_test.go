package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nkravets/eshop/internal/models"
	repository "github.com/nkravets/eshop/internal/repository/postgres"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPostgresCategoryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCategoryRepository(db)
	ctx := context.Background()

	insertQuery := regexp.QuoteMeta(`INSERT INTO categories (name, icon, color) VALUES ($1, $2, $3) RETURNING id`)

	t.Run("Success", func(t *testing.T) {
		category := &models.Category{Name: "Lighting", Icon: "bulb", Color: "#ffcc00"}
		mock.ExpectQuery(insertQuery).
			WithArgs(category.Name, category.Icon, category.Color).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		err := repo.Create(ctx, category)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), category.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NilCategory", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, nil), pkgerrors.ErrNilCategory)
	})

	t.Run("MissingName", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, &models.Category{}), pkgerrors.ErrInvalidInput)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		category := &models.Category{Name: "Lighting"}
		mock.ExpectQuery(insertQuery).
			WithArgs(category.Name, category.Icon, category.Color).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(ctx, category)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create category")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCategoryRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCategoryRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT id, name, icon, color FROM categories WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		expected := &models.Category{ID: 1, Name: "Lighting", Icon: "bulb", Color: "#ffcc00"}
		mock.ExpectQuery(query).
			WithArgs(expected.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "color"}).
				AddRow(expected.ID, expected.Name, expected.Icon, expected.Color))

		category, err := repo.GetByID(ctx, expected.ID)
		assert.NoError(t, err)
		assert.Equal(t, expected, category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CategoryNotFound", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		category, err := repo.GetByID(ctx, 2)
		assert.Nil(t, category)
		assert.ErrorIs(t, err, pkgerrors.ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCategoryRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCategoryRepository(db)
	ctx := context.Background()

	expected := []models.Category{
		{ID: 1, Name: "Lighting", Icon: "bulb", Color: "#ffcc00"},
		{ID: 2, Name: "Furniture", Icon: "chair", Color: "#3366ff"},
	}
	rows := sqlmock.NewRows([]string{"id", "name", "icon", "color"})
	for _, c := range expected {
		rows.AddRow(c.ID, c.Name, c.Icon, c.Color)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, icon, color FROM categories ORDER BY id`)).
		WillReturnRows(rows)

	categories, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCategoryRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCategoryRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`UPDATE categories SET name = $1, icon = $2, color = $3 WHERE id = $4`)

	t.Run("Success", func(t *testing.T) {
		category := &models.Category{ID: 1, Name: "Lighting", Icon: "bulb", Color: "#ffcc00"}
		mock.ExpectExec(query).
			WithArgs(category.Name, category.Icon, category.Color, category.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, category))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CategoryNotFound", func(t *testing.T) {
		category := &models.Category{ID: 9, Name: "Ghost"}
		mock.ExpectExec(query).
			WithArgs(category.Name, category.Icon, category.Color, category.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, category), pkgerrors.ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NilCategory", func(t *testing.T) {
		assert.ErrorIs(t, repo.Update(ctx, nil), pkgerrors.ErrNilCategory)
	})
}

func TestPostgresCategoryRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCategoryRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CategoryNotFound", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 2), pkgerrors.ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
