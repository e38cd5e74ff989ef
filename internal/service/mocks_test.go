package service

import (
	"context"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/provider/google"
)

type userRepoMock struct {
	CreateFunc     func(ctx context.Context, name, email, picture string) error
	GetByIDFunc    func(ctx context.Context, id int64) (*model.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*model.User, error)

	createCalls int
}

func (m *userRepoMock) Create(ctx context.Context, name, email, picture string) error {
	m.createCalls++
	return m.CreateFunc(ctx, name, email, picture)
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

type categoryRepoMock struct {
	ListFunc              func(ctx context.Context) ([]model.Category, error)
	GetByNameFunc         func(ctx context.Context, name string) (*model.Category, error)
	CreateIfNotExistsFunc func(ctx context.Context, name string, userID int64) (*model.Category, error)
}

func (m *categoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	return m.ListFunc(ctx)
}

func (m *categoryRepoMock) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return m.GetByNameFunc(ctx, name)
}

func (m *categoryRepoMock) CreateIfNotExists(ctx context.Context, name string, userID int64) (*model.Category, error) {
	return m.CreateIfNotExistsFunc(ctx, name, userID)
}

type itemRepoMock struct {
	ListByCategoryFunc       func(ctx context.Context, category string) ([]model.Item, error)
	ListAllFunc              func(ctx context.Context) ([]model.Item, error)
	GetByCategoryAndNameFunc func(ctx context.Context, category, name string) (*model.Item, error)
	LatestFunc               func(ctx context.Context, limit uint64) ([]model.Item, error)
	CreateFunc               func(ctx context.Context, item *model.Item) (int64, error)
	UpdateFunc               func(ctx context.Context, id int64, name, description string, categoryID int64) error
	DeleteFunc               func(ctx context.Context, id, userID int64) (bool, error)

	lookupCalls int
	deleteCalls int
	updateCalls int
}

func (m *itemRepoMock) ListByCategory(ctx context.Context, category string) ([]model.Item, error) {
	return m.ListByCategoryFunc(ctx, category)
}

func (m *itemRepoMock) ListAll(ctx context.Context) ([]model.Item, error) {
	return m.ListAllFunc(ctx)
}

func (m *itemRepoMock) GetByCategoryAndName(ctx context.Context, category, name string) (*model.Item, error) {
	m.lookupCalls++
	return m.GetByCategoryAndNameFunc(ctx, category, name)
}

func (m *itemRepoMock) Latest(ctx context.Context, limit uint64) ([]model.Item, error) {
	return m.LatestFunc(ctx, limit)
}

func (m *itemRepoMock) Create(ctx context.Context, item *model.Item) (int64, error) {
	return m.CreateFunc(ctx, item)
}

func (m *itemRepoMock) Update(ctx context.Context, id int64, name, description string, categoryID int64) error {
	m.updateCalls++
	return m.UpdateFunc(ctx, id, name, description, categoryID)
}

func (m *itemRepoMock) Delete(ctx context.Context, id, userID int64) (bool, error) {
	m.deleteCalls++
	return m.DeleteFunc(ctx, id, userID)
}

type googleMock struct {
	ExchangeFunc func(ctx context.Context, code string) (*google.Profile, error)
	RevokeFunc   func(ctx context.Context, accessToken string) error

	revoked []string
}

func (m *googleMock) Exchange(ctx context.Context, code string) (*google.Profile, error) {
	return m.ExchangeFunc(ctx, code)
}

func (m *googleMock) Revoke(ctx context.Context, accessToken string) error {
	m.revoked = append(m.revoked, accessToken)
	if m.RevokeFunc == nil {
		return nil
	}
	return m.RevokeFunc(ctx, accessToken)
}

type clerkMock struct {
	GetFunc func(ctx context.Context, id string) (*clerk.User, error)
}

func (m *clerkMock) Get(ctx context.Context, id string) (*clerk.User, error) {
	return m.GetFunc(ctx, id)
}

type welcomeMock struct {
	err   error
	calls []string
}

func (m *welcomeMock) EnqueueWelcomeEmail(_ context.Context, to, _, _ string) error {
	m.calls = append(m.calls, to)
	return m.err
}
