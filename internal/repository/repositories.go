package repository

import (
	"github.com/deppfellow/go-catalog/internal/server"
)

// Repositories groups every repository so services receive one value.
type Repositories struct {
	Users      *UserRepository
	Categories *CategoryRepository
	Items      *ItemRepository
}

// NewRepositories wires repositories onto the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return newRepositories(s.DB.Pool)
}

func newRepositories(db Querier) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Items:      NewItemRepository(db),
	}
}
