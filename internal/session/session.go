// Package session keeps per-browser login state on the server.
//
// A session is a small JSON document in Redis addressed by a random id that
// travels in an HttpOnly cookie. Handlers read and mutate it through the
// echo context; the session middleware persists it when it changed.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrNotFound is returned by Store.Load for unknown or expired ids.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// Touch restarts the TTL of an unchanged session.
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Session is the server side state of one browser.
type Session struct {
	ID string `json:"-"`

	AccessToken string `json:"access_token,omitempty"`
	ProviderID  string `json:"provider_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Provider    string `json:"provider,omitempty"`
	UserID      *int64 `json:"user_id,omitempty"`
	LoggedIn    bool   `json:"logged_in,omitempty"`

	// State is the anti-forgery token issued by the login page.
	State string `json:"state,omitempty"`

	modified   bool
	previousID string
}

// New returns an empty session with a fresh id.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Identity is what an identity provider tells us about the user.
type Identity struct {
	Provider    string
	ProviderID  string
	AccessToken string
	Username    string
	Email       string
	Picture     string
}

// IsLoggedIn reports whether the login flow completed.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.LoggedIn
}

// CurrentUserID returns the logged in user's id.
func (s *Session) CurrentUserID() (int64, bool) {
	if s == nil || s.UserID == nil {
		return 0, false
	}
	return *s.UserID, true
}

// SetIdentity stores provider data. The user id and logged_in flag are set
// separately by Login once the user row exists.
func (s *Session) SetIdentity(id Identity) {
	s.Provider = id.Provider
	s.ProviderID = id.ProviderID
	s.AccessToken = id.AccessToken
	s.Username = id.Username
	s.Email = id.Email
	s.Picture = id.Picture
	s.modified = true
}

// Login completes the login and rotates the session id.
func (s *Session) Login(userID int64) {
	s.UserID = &userID
	s.LoggedIn = true
	s.State = ""
	s.regenerate()
}

// ClearLogin drops every login key and keeps the session itself.
func (s *Session) ClearLogin() {
	s.AccessToken = ""
	s.ProviderID = ""
	s.Username = ""
	s.Email = ""
	s.Picture = ""
	s.Provider = ""
	s.UserID = nil
	s.LoggedIn = false
	s.modified = true
}

// SetState stores a new anti-forgery token.
func (s *Session) SetState(state string) {
	s.State = state
	s.modified = true
}

// Modified reports whether the session must be saved.
func (s *Session) Modified() bool {
	return s.modified
}

// PreviousID is the id replaced by the last rotation, if any.
func (s *Session) PreviousID() string {
	return s.previousID
}

func (s *Session) regenerate() {
	if s.previousID == "" {
		s.previousID = s.ID
	}
	s.ID = uuid.NewString()
	s.modified = true
}

const contextKey = "session"

// FromContext returns the request's session. Without the session middleware
// it returns an empty, unsaved session so callers never see nil.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	s := New()
	c.Set(contextKey, s)
	return s
}

// WithSession attaches s to the request.
func WithSession(c echo.Context, s *Session) {
	c.Set(contextKey, s)
}
