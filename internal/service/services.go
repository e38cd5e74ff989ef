package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/go-catalog/internal/lib/job"
	"github.com/deppfellow/go-catalog/internal/provider/google"
	"github.com/deppfellow/go-catalog/internal/repository"
	"github.com/deppfellow/go-catalog/internal/server"
)

// Services groups the business layer.
type Services struct {
	Users   *UserService
	Catalog *CatalogService
	Auth    *AuthService
	Job     *job.JobService
}

// NewServices wires services onto the repositories. Clerk is initialised
// only when a secret key is configured.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	auth := s.Config.Auth

	var clerkUsers ClerkUsers
	if auth.ClerkSecretKey != "" {
		clerk.SetKey(auth.ClerkSecretKey)
		clerkUsers = clerkUserAPI{}
	}

	users := NewUserService(repos.Users)
	verifier := google.NewVerifier(auth.GoogleClientID, auth.GoogleClientSecret, auth.GoogleRedirectURI, s.Logger)

	return &Services{
		Users:   users,
		Catalog: NewCatalogService(users, repos.Categories, repos.Items),
		Auth:    NewAuthService(users, verifier, clerkUsers, s.Job, auth.GoogleClientID),
		Job:     s.Job,
	}, nil
}
