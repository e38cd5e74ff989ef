package service

import (
	"context"
	"errors"
	"strings"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/repository"
	"github.com/deppfellow/go-catalog/internal/session"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LatestItemsLimit caps the "latest items" listing.
const LatestItemsLimit = 10

// Catalog is the landing page content.
type Catalog struct {
	Categories  []model.Category `json:"categories"`
	LatestItems []model.Item     `json:"latestItems"`
}

// NewItemInput describes an item to create.
type NewItemInput struct {
	Category    string
	Name        string
	Description string
}

// EditItemInput identifies an item by its current category and name and
// carries its new values.
type EditItemInput struct {
	OldCategory string
	OldName     string
	Name        string
	Description string
	Category    string
}

// CatalogService reads and writes categories and items.
type CatalogService struct {
	users      *UserService
	categories CategoryRepository
	items      ItemRepository
}

func NewCatalogService(users *UserService, categories CategoryRepository, items ItemRepository) *CatalogService {
	return &CatalogService{
		users:      users,
		categories: categories,
		items:      items,
	}
}

// ShowCatalog returns every category and the most recent items.
func (s *CatalogService) ShowCatalog(ctx context.Context) (*Catalog, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.GetLatestItems(ctx)
	if err != nil {
		return nil, err
	}

	return &Catalog{Categories: categories, LatestItems: latest}, nil
}

// GetCategories returns all categories ordered by name.
func (s *CatalogService) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list categories")
	}
	return categories, nil
}

// GetCategory returns the category with that name, or nil.
func (s *CatalogService) GetCategory(ctx context.Context, name string) (*model.Category, error) {
	category, err := s.categories.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get category")
	}
	return category, nil
}

// NewCategory returns the category with that name, creating it for the
// session's user when it does not exist yet.
func (s *CatalogService) NewCategory(ctx context.Context, name string, sess *session.Session) (*model.Category, error) {
	userID, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.CreateIfNotExists(ctx, strings.TrimSpace(name), userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "new category")
	}
	return category, nil
}

// GetCategoryItems lists the items of a category ordered by name. An unknown
// category has no items.
func (s *CatalogService) GetCategoryItems(ctx context.Context, category string) ([]model.Item, error) {
	items, err := s.items.ListByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list category items")
	}
	return items, nil
}

// GetItem returns the item, or nil.
func (s *CatalogService) GetItem(ctx context.Context, category, name string) (*model.Item, error) {
	item, err := s.items.GetByCategoryAndName(ctx, strings.TrimSpace(category), strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get item")
	}
	return item, nil
}

// GetLatestItems returns at most LatestItemsLimit items, newest first.
func (s *CatalogService) GetLatestItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.Latest(ctx, LatestItemsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "latest items")
	}
	return items, nil
}

// NewItem creates an item owned by the session's user. The category is
// created on the fly when needed.
func (s *CatalogService) NewItem(ctx context.Context, in NewItemInput, sess *session.Session) (*model.Item, error) {
	userID, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	category, err := s.NewCategory(ctx, in.Category, sess)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	id, err := s.items.Create(ctx, &model.Item{
		Name:        name,
		Description: in.Description,
		CategoryID:  category.ID,
		UserID:      userID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create item")
	}

	zerolog.Ctx(ctx).Info().
		Int64("item_id", id).
		Str("category", category.Name).
		Msg("item created")

	return s.reloadItem(ctx, category.Name, name)
}

// EditItem updates an item owned by the session's user, possibly moving it
// to another category.
func (s *CatalogService) EditItem(ctx context.Context, in EditItemInput, sess *session.Session) (*model.Item, error) {
	if _, err := requireUser(sess); err != nil {
		return nil, err
	}

	item, err := s.GetItem(ctx, in.OldCategory, in.OldName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound()
	}

	if _, ok := s.users.IsCreator(ctx, item.UserID, sess); !ok {
		return nil, errs.NewForbiddenError("You are not authorized to edit this item", true)
	}

	category, err := s.NewCategory(ctx, in.Category, sess)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := s.items.Update(ctx, item.ID, name, in.Description, category.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, itemNotFound()
		}
		return nil, pkgerrors.Wrap(err, "update item")
	}

	return s.reloadItem(ctx, category.Name, name)
}

// DelItem deletes the item when the session's user created it and reports
// false when someone else owns it. A missing item is a 404 error.
func (s *CatalogService) DelItem(ctx context.Context, category, name string, sess *session.Session) (bool, error) {
	item, err := s.GetItem(ctx, category, name)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, itemNotFound()
	}

	if _, ok := s.users.IsCreator(ctx, item.UserID, sess); !ok {
		return false, nil
	}

	userID, _ := sess.CurrentUserID()
	deleted, err := s.items.Delete(ctx, item.ID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(err, "delete item")
	}

	if deleted {
		zerolog.Ctx(ctx).Info().Int64("item_id", item.ID).Msg("item deleted")
	}
	return deleted, nil
}

// Export returns every category with its items nested, ordered by name.
func (s *CatalogService) Export(ctx context.Context) ([]model.CategoryWithItems, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list items")
	}

	byCategory := make(map[int64][]model.Item, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	out := make([]model.CategoryWithItems, 0, len(categories))
	for _, c := range categories {
		nested := byCategory[c.ID]
		if nested == nil {
			nested = []model.Item{}
		}
		out = append(out, model.CategoryWithItems{Category: c, Items: nested})
	}
	return out, nil
}

func (s *CatalogService) reloadItem(ctx context.Context, category, name string) (*model.Item, error) {
	item, err := s.items.GetByCategoryAndName(ctx, category, name)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reload item")
	}
	return item, nil
}

func requireUser(sess *session.Session) (int64, error) {
	userID, ok := sess.CurrentUserID()
	if !ok {
		return 0, errs.NewUnauthorizedError("Login required", true)
	}
	return userID, nil
}

func itemNotFound() *errs.HTTPError {
	code := "ITEM_NOT_FOUND"
	return errs.NewNotFoundError("Item not found", true, &code)
}
