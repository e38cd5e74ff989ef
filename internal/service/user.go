package service

import (
	"context"
	"errors"

	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/repository"
	"github.com/deppfellow/go-catalog/internal/session"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// UserService manages the users created by the login flow.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUser inserts a user from the session's identity fields and returns
// the id of the stored row. A user that already exists with the same email
// is reused.
func (s *UserService) CreateUser(ctx context.Context, sess *session.Session) (int64, error) {
	if err := s.users.Create(ctx, sess.Username, sess.Email, sess.Picture); err != nil {
		return 0, pkgerrors.Wrap(err, "create user")
	}

	user, err := s.users.GetByEmail(ctx, sess.Email)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "reload user")
	}
	return user.ID, nil
}

// GetUserInfo returns the user or nil. Lookup failures are logged, not
// returned.
func (s *UserService) GetUserInfo(ctx context.Context, id int64) *model.User {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", id).Msg("failed to load user")
		}
		return nil
	}
	return user
}

// GetUserID looks a user up by email.
func (s *UserService) GetUserID(ctx context.Context, email string) (int64, bool) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			zerolog.Ctx(ctx).Error().Err(err).Str("email", email).Msg("failed to look up user by email")
		}
		return 0, false
	}
	return user.ID, true
}

// IsCreator loads the owner of a resource and reports whether it is the
// session's user. A missing owner yields (nil, false).
func (s *UserService) IsCreator(ctx context.Context, ownerID int64, sess *session.Session) (*model.User, bool) {
	creator := s.GetUserInfo(ctx, ownerID)
	if creator == nil {
		return nil, false
	}

	userID, ok := sess.CurrentUserID()
	return creator, ok && creator.ID == userID
}
