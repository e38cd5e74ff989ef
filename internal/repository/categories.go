package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/go-catalog/internal/model"
)

var categoryColumns = []string{"id", "name", "user_id", "created_at"}

type CategoryRepository struct {
	db Querier
}

func NewCategoryRepository(db Querier) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	categories, err := selectAll[model.Category](ctx, r.db, psql.Select(categoryColumns...).
		From("categories").
		OrderBy("name"))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return getOne[model.Category](ctx, r.db, psql.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"name": name}).
		Limit(1))
}

// CreateIfNotExists inserts the category unless the name is taken and then
// returns the stored row. Concurrent callers with the same name all get the
// same category.
func (r *CategoryRepository) CreateIfNotExists(ctx context.Context, name string, userID int64) (*model.Category, error) {
	b := psql.Insert("categories").
		Columns("name", "user_id").
		Values(name, userID).
		Suffix("ON CONFLICT (name) DO NOTHING")

	if _, err := exec(ctx, r.db, b); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return r.GetByName(ctx, name)
}
