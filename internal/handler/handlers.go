package handler

import (
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/deppfellow/go-catalog/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Catalog *CatalogHandler
	Auth    *AuthHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Catalog: NewCatalogHandler(s, services.Catalog, services.Users),
		Auth:    NewAuthHandler(s, services.Auth),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
