package handler

import (
	"encoding/json"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/deppfellow/go-catalog/internal/service"
	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
)

// CatalogHandler serves categories and items.
type CatalogHandler struct {
	Handler
	catalog *service.CatalogService
	users   *service.UserService
}

func NewCatalogHandler(s *server.Server, catalog *service.CatalogService, users *service.UserService) *CatalogHandler {
	return &CatalogHandler{
		Handler: NewHandler(s),
		catalog: catalog,
		users:   users,
	}
}

// CatalogExport is the body of /catalog.json.
type CatalogExport struct {
	Categories []model.CategoryWithItems `json:"categories"`
}

// CategoryDetail is a category page.
type CategoryDetail struct {
	Category *model.Category `json:"category"`
	Items    []model.Item    `json:"items"`
}

// ItemDetail is an item page. Editable tells the client whether to offer
// edit and delete.
type ItemDetail struct {
	Item     *model.Item `json:"item"`
	Creator  *model.User `json:"creator"`
	Editable bool        `json:"editable"`
}

func (h *CatalogHandler) ShowCatalog(c echo.Context, _ *NoParams) (*service.Catalog, error) {
	return h.catalog.ShowCatalog(c.Request().Context())
}

func (h *CatalogHandler) CatalogJSON(c echo.Context, _ *NoParams) (*CatalogExport, error) {
	categories, err := h.catalog.Export(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &CatalogExport{Categories: categories}, nil
}

// DownloadCatalog returns the same document as CatalogJSON as an attachment.
func (h *CatalogHandler) DownloadCatalog(c echo.Context, req *NoParams) ([]byte, error) {
	export, err := h.CatalogJSON(c, req)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode catalog")
	}
	return data, nil
}

func (h *CatalogHandler) GetCategories(c echo.Context, _ *NoParams) ([]model.Category, error) {
	return h.catalog.GetCategories(c.Request().Context())
}

func (h *CatalogHandler) NewCategory(c echo.Context, req *NewCategoryRequest) (*model.Category, error) {
	return h.catalog.NewCategory(c.Request().Context(), req.Name, session.FromContext(c))
}

func (h *CatalogHandler) GetCategory(c echo.Context, req *CategoryParams) (*CategoryDetail, error) {
	ctx := c.Request().Context()

	category, err := h.catalog.GetCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if category == nil {
		code := "CATEGORY_NOT_FOUND"
		return nil, errs.NewNotFoundError("Category not found", true, &code)
	}

	items, err := h.catalog.GetCategoryItems(ctx, category.Name)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: category, Items: items}, nil
}

func (h *CatalogHandler) NewItem(c echo.Context, req *NewItemRequest) (*model.Item, error) {
	return h.catalog.NewItem(c.Request().Context(), service.NewItemInput{
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
	}, session.FromContext(c))
}

func (h *CatalogHandler) GetItem(c echo.Context, req *ItemParams) (*ItemDetail, error) {
	ctx := c.Request().Context()

	item, err := h.catalog.GetItem(ctx, req.Category, req.Item)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound()
	}

	creator, editable := h.users.IsCreator(ctx, item.UserID, session.FromContext(c))
	return &ItemDetail{Item: item, Creator: creator, Editable: editable}, nil
}

func (h *CatalogHandler) EditItem(c echo.Context, req *EditItemRequest) (*model.Item, error) {
	return h.catalog.EditItem(c.Request().Context(), service.EditItemInput{
		OldCategory: req.OldCategory,
		OldName:     req.OldName,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}, session.FromContext(c))
}

// DeleteItem answers 404 for a missing item and 403 when the item belongs to
// someone else.
func (h *CatalogHandler) DeleteItem(c echo.Context, req *ItemParams) error {
	deleted, err := h.catalog.DelItem(c.Request().Context(), req.Category, req.Item, session.FromContext(c))
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewForbiddenError("You are not authorized to delete this item", true)
	}
	return nil
}

func (h *CatalogHandler) LatestItems(c echo.Context, _ *NoParams) ([]model.Item, error) {
	return h.catalog.GetLatestItems(c.Request().Context())
}

func itemNotFound() *errs.HTTPError {
	code := "ITEM_NOT_FOUND"
	return errs.NewNotFoundError("Item not found", true, &code)
}
