package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/go-catalog/internal/model"
)

var userColumns = []string{"id", "name", "email", "picture", "created_at"}

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. An existing email is left untouched, so logging in
// twice never fails on the unique constraint.
func (r *UserRepository) Create(ctx context.Context, name, email, picture string) error {
	b := psql.Insert("users").
		Columns("name", "email", "picture").
		Values(name, email, picture).
		Suffix("ON CONFLICT (email) DO NOTHING")

	if _, err := exec(ctx, r.db, b); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getOne[model.User](ctx, r.db, psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return getOne[model.User](ctx, r.db, psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}))
}
