package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/deppfellow/go-catalog/internal/model"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	itemCols     = []string{"id", "name", "description", "category_id", "category_name", "user_id", "created_at"}
	categoryCols = []string{"id", "name", "user_id", "created_at"}
	userCols     = []string{"id", "name", "email", "picture", "created_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q("INSERT INTO users (name,email,picture) VALUES ($1,$2,$3) ON CONFLICT (email) DO NOTHING")).
		WithArgs("Ada", "ada@example.com", "https://pic").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), "Ada", "ada@example.com", "https://pic"))
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		rows    *pgxmock.Rows
		wantErr error
		wantID  int64
	}{
		{
			name:   "found",
			rows:   pgxmock.NewRows(userCols).AddRow(int64(7), "Ada", "ada@example.com", "", now),
			wantID: 7,
		},
		{
			name:    "not found",
			rows:    pgxmock.NewRows(userCols),
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewUserRepository(mock)

			mock.ExpectQuery(q("SELECT id, name, email, picture, created_at FROM users WHERE email = $1")).
				WithArgs("ada@example.com").
				WillReturnRows(tt.rows)

			user, err := repo.GetByEmail(context.Background(), "ada@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

func TestCategoryRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q("SELECT id, name, user_id, created_at FROM categories ORDER BY name")).
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(int64(2), "Basketball", int64(1), now).
			AddRow(int64(1), "Soccer", int64(1), now))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Basketball", categories[0].Name)
	assert.Equal(t, "Soccer", categories[1].Name)
}

func TestCategoryRepository_List_EmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery(q("FROM categories ORDER BY name")).
		WillReturnRows(pgxmock.NewRows(categoryCols))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestCategoryRepository_CreateIfNotExists(t *testing.T) {
	now := time.Now()

	// The second call hits the conflict and inserts nothing, but still
	// returns the row created by the first.
	for _, affected := range []int64{1, 0} {
		mock := newMock(t)
		repo := NewCategoryRepository(mock)

		mock.ExpectExec(q("INSERT INTO categories (name,user_id) VALUES ($1,$2) ON CONFLICT (name) DO NOTHING")).
			WithArgs("Soccer", int64(3)).
			WillReturnResult(pgxmock.NewResult("INSERT", affected))
		mock.ExpectQuery(q("SELECT id, name, user_id, created_at FROM categories WHERE name = $1 LIMIT 1")).
			WithArgs("Soccer").
			WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(11), "Soccer", int64(3), now))

		category, err := repo.CreateIfNotExists(context.Background(), "Soccer", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(11), category.ID)
	}
}

func TestCategoryRepository_CreateIfNotExists_ExecError(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectExec("INSERT INTO categories").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateIfNotExists(context.Background(), "Soccer", 3)
	assert.ErrorContains(t, err, "create category")
}

const itemSelect = "SELECT i.id, i.name, i.description, i.category_id, c.name AS category_name, i.user_id, i.created_at " +
	"FROM items i JOIN categories c ON c.id = i.category_id"

func TestItemRepository_GetByCategoryAndName(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q(itemSelect+" WHERE c.name = $1 AND i.name = $2 LIMIT 1")).
		WithArgs("Soccer", "Ball").
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow(int64(5), "Ball", "Round", int64(11), "Soccer", int64(3), now))

	item, err := repo.GetByCategoryAndName(context.Background(), "Soccer", "Ball")
	require.NoError(t, err)
	assert.Equal(t, model.Item{
		ID: 5, Name: "Ball", Description: "Round", CategoryID: 11,
		CategoryName: "Soccer", UserID: 3, CreatedAt: now,
	}, *item)
}

func TestItemRepository_Latest(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q(itemSelect + " ORDER BY i.created_at DESC, i.id DESC LIMIT 10")).
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow(int64(9), "Net", "", int64(11), "Soccer", int64(3), now).
			AddRow(int64(8), "Hoop", "", int64(12), "Basketball", int64(3), now.Add(-time.Minute)))

	items, err := repo.Latest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Net", items[0].Name)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
}

func TestItemRepository_ListByCategory(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock)

	mock.ExpectQuery(q(itemSelect+" WHERE c.name = $1 ORDER BY i.name")).
		WithArgs("Soccer").
		WillReturnRows(pgxmock.NewRows(itemCols))

	items, err := repo.ListByCategory(context.Background(), "Soccer")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock)

	mock.ExpectQuery(q("INSERT INTO items (name,description,category_id,user_id) VALUES ($1,$2,$3,$4) RETURNING id")).
		WithArgs("Ball", "Round", int64(11), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Create(context.Background(), &model.Item{
		Name: "Ball", Description: "Round", CategoryID: 11, UserID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestItemRepository_Update(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		mock := newMock(t)
		repo := NewItemRepository(mock)

		mock.ExpectExec(q("UPDATE items SET name = $1, description = $2, category_id = $3 WHERE id = $4")).
			WithArgs("Ball", "Leather", int64(12), int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(context.Background(), 5, "Ball", "Leather", 12))
	})

	t.Run("missing row", func(t *testing.T) {
		mock := newMock(t)
		repo := NewItemRepository(mock)

		mock.ExpectExec("UPDATE items").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.Update(context.Background(), 5, "Ball", "", 12), ErrNotFound)
	})
}

func TestItemRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "owner deletes", affected: 1, want: true},
		{name: "other user deletes nothing", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewItemRepository(mock)

			mock.ExpectExec(q("DELETE FROM items WHERE id = $1 AND user_id = $2")).
				WithArgs(int64(5), int64(3)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			deleted, err := repo.Delete(context.Background(), 5, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
		})
	}
}
