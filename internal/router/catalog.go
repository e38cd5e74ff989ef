package router

import (
	"net/http"

	"github.com/deppfellow/go-catalog/internal/handler"
	"github.com/deppfellow/go-catalog/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerCatalogRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	ch := h.Catalog
	login := mw.Session.LoginRequired

	r.GET("/catalog", handler.Handle(ch.Handler, ch.ShowCatalog, http.StatusOK, &handler.NoParams{}))
	r.GET("/catalog.json", handler.Handle(ch.Handler, ch.CatalogJSON, http.StatusOK, &handler.NoParams{}))
	r.GET("/catalog/download", handler.HandleFile(ch.Handler, ch.DownloadCatalog, http.StatusOK, &handler.NoParams{},
		"catalog.json", echo.MIMEApplicationJSON))
	r.GET("/items/latest", handler.Handle(ch.Handler, ch.LatestItems, http.StatusOK, &handler.NoParams{}))

	categories := r.Group("/categories")
	categories.GET("", handler.Handle(ch.Handler, ch.GetCategories, http.StatusOK, &handler.NoParams{}))
	categories.POST("", handler.Handle(ch.Handler, ch.NewCategory, http.StatusCreated, &handler.NewCategoryRequest{}), login)
	categories.GET("/:category", handler.Handle(ch.Handler, ch.GetCategory, http.StatusOK, &handler.CategoryParams{}))

	items := categories.Group("/:category/items")
	items.POST("", handler.Handle(ch.Handler, ch.NewItem, http.StatusCreated, &handler.NewItemRequest{}), login)
	items.GET("/:item", handler.Handle(ch.Handler, ch.GetItem, http.StatusOK, &handler.ItemParams{}))
	items.PUT("/:item", handler.Handle(ch.Handler, ch.EditItem, http.StatusOK, &handler.EditItemRequest{}), login)
	items.DELETE("/:item", handler.HandleNoContent(ch.Handler, ch.DeleteItem, http.StatusNoContent, &handler.ItemParams{}), login)
}
