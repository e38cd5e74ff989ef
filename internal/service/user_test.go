package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/repository"
	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUsers backs a userRepoMock with a map keyed by email.
func memoryUsers(seed ...model.User) *userRepoMock {
	byEmail := map[string]*model.User{}
	var nextID int64
	for i := range seed {
		u := seed[i]
		byEmail[u.Email] = &u
		if u.ID > nextID {
			nextID = u.ID
		}
	}

	return &userRepoMock{
		CreateFunc: func(_ context.Context, name, email, picture string) error {
			if _, ok := byEmail[email]; ok {
				return nil
			}
			nextID++
			byEmail[email] = &model.User{ID: nextID, Name: name, Email: email, Picture: picture}
			return nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*model.User, error) {
			for _, u := range byEmail {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, repository.ErrNotFound
		},
		GetByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			return nil, repository.ErrNotFound
		},
	}
}

func loggedIn(userID int64) *session.Session {
	sess := session.New()
	sess.Login(userID)
	return sess
}

func TestUserService_CreateUser(t *testing.T) {
	repo := memoryUsers(model.User{ID: 4, Email: "grace@example.com"})
	svc := NewUserService(repo)

	sess := session.New()
	sess.SetIdentity(session.Identity{Username: "Ada", Email: "ada@example.com", Picture: "https://pic"})

	id, err := svc.CreateUser(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	again, err := svc.CreateUser(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, id, again, "the same email resolves to the same user")
}

func TestUserService_CreateUser_InsertFails(t *testing.T) {
	repo := memoryUsers()
	repo.CreateFunc = func(context.Context, string, string, string) error {
		return errors.New("connection refused")
	}

	_, err := NewUserService(repo).CreateUser(context.Background(), session.New())
	assert.ErrorContains(t, err, "create user")
}

func TestUserService_GetUserInfo(t *testing.T) {
	svc := NewUserService(memoryUsers(model.User{ID: 1, Name: "Ada", Email: "ada@example.com"}))

	user := svc.GetUserInfo(context.Background(), 1)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)

	assert.Nil(t, svc.GetUserInfo(context.Background(), 99))
}

func TestUserService_GetUserInfo_SwallowsErrors(t *testing.T) {
	repo := memoryUsers()
	repo.GetByIDFunc = func(context.Context, int64) (*model.User, error) {
		return nil, errors.New("timeout")
	}

	assert.Nil(t, NewUserService(repo).GetUserInfo(context.Background(), 1))
}

func TestUserService_GetUserID(t *testing.T) {
	svc := NewUserService(memoryUsers(model.User{ID: 3, Email: "ada@example.com"}))

	id, ok := svc.GetUserID(context.Background(), "ada@example.com")
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	_, ok = svc.GetUserID(context.Background(), "nobody@example.com")
	assert.False(t, ok)
}

func TestUserService_IsCreator(t *testing.T) {
	svc := NewUserService(memoryUsers(
		model.User{ID: 1, Email: "ada@example.com"},
		model.User{ID: 2, Email: "grace@example.com"},
	))
	ctx := context.Background()

	tests := []struct {
		name        string
		ownerID     int64
		sess        *session.Session
		wantCreator bool
		wantOK      bool
	}{
		{name: "owner", ownerID: 1, sess: loggedIn(1), wantCreator: true, wantOK: true},
		{name: "someone else", ownerID: 1, sess: loggedIn(2), wantCreator: true, wantOK: false},
		{name: "anonymous", ownerID: 1, sess: session.New(), wantCreator: true, wantOK: false},
		{name: "missing owner", ownerID: 42, sess: loggedIn(42), wantCreator: false, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator, ok := svc.IsCreator(ctx, tt.ownerID, tt.sess)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCreator, creator != nil)
		})
	}
}
