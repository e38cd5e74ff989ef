// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, applies ownership rules using the session, and calls
// repository methods to read and write the catalog.
package service

import (
	"context"

	"github.com/deppfellow/go-catalog/internal/model"
)

// UserRepository is implemented by repository.UserRepository.
type UserRepository interface {
	Create(ctx context.Context, name, email, picture string) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CategoryRepository is implemented by repository.CategoryRepository.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	CreateIfNotExists(ctx context.Context, name string, userID int64) (*model.Category, error)
}

// ItemRepository is implemented by repository.ItemRepository.
type ItemRepository interface {
	ListByCategory(ctx context.Context, category string) ([]model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	GetByCategoryAndName(ctx context.Context, category, name string) (*model.Item, error)
	Latest(ctx context.Context, limit uint64) ([]model.Item, error)
	Create(ctx context.Context, item *model.Item) (int64, error)
	Update(ctx context.Context, id int64, name, description string, categoryID int64) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
}
