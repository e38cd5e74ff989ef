package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/go-catalog/internal/model"
)

type ItemRepository struct {
	db Querier
}

func NewItemRepository(db Querier) *ItemRepository {
	return &ItemRepository{db: db}
}

// selectItems joins the category so every item carries its category name.
func selectItems() sq.SelectBuilder {
	return psql.Select(
		"i.id", "i.name", "i.description", "i.category_id",
		"c.name AS category_name", "i.user_id", "i.created_at",
	).
		From("items i").
		Join("categories c ON c.id = i.category_id")
}

// ListByCategory returns the items of a category ordered by name.
func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]model.Item, error) {
	items, err := selectAll[model.Item](ctx, r.db, selectItems().
		Where(sq.Eq{"c.name": category}).
		OrderBy("i.name"))
	if err != nil {
		return nil, fmt.Errorf("list items of %q: %w", category, err)
	}
	return items, nil
}

// ListAll returns every item ordered by category and name.
func (r *ItemRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	items, err := selectAll[model.Item](ctx, r.db, selectItems().OrderBy("c.name", "i.name"))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) GetByCategoryAndName(ctx context.Context, category, name string) (*model.Item, error) {
	return getOne[model.Item](ctx, r.db, selectItems().
		Where(sq.Eq{"c.name": category, "i.name": name}).
		Limit(1))
}

// Latest returns at most limit items, newest first.
func (r *ItemRepository) Latest(ctx context.Context, limit uint64) ([]model.Item, error) {
	items, err := selectAll[model.Item](ctx, r.db, selectItems().
		OrderBy("i.created_at DESC", "i.id DESC").
		Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("latest items: %w", err)
	}
	return items, nil
}

// Create inserts the item and returns its id.
func (r *ItemRepository) Create(ctx context.Context, item *model.Item) (int64, error) {
	query, args, err := psql.Insert("items").
		Columns("name", "description", "category_id", "user_id").
		Values(item.Name, item.Description, item.CategoryID, item.UserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	return id, nil
}

// Update rewrites name, description and category of the item with id.
func (r *ItemRepository) Update(ctx context.Context, id int64, name, description string, categoryID int64) error {
	n, err := exec(ctx, r.db, psql.Update("items").
		Set("name", name).
		Set("description", description).
		Set("category_id", categoryID).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the item only if userID owns it and reports whether a row
// was deleted.
func (r *ItemRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	n, err := exec(ctx, r.db, psql.Delete("items").
		Where(sq.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return n > 0, nil
}
