package service

import (
	"context"
	"errors"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/deppfellow/go-catalog/internal/model"
	"github.com/deppfellow/go-catalog/internal/provider/google"
	"github.com/deppfellow/go-catalog/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ProviderGoogle = "google"
	ProviderClerk  = "clerk"
)

// GoogleExchanger is implemented by google.Verifier.
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (*google.Profile, error)
	Revoke(ctx context.Context, accessToken string) error
}

// ClerkUsers fetches Clerk user profiles.
type ClerkUsers interface {
	Get(ctx context.Context, id string) (*clerk.User, error)
}

// WelcomeEnqueuer is implemented by job.JobService.
type WelcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name, provider string) error
}

type clerkUserAPI struct{}

func (clerkUserAPI) Get(ctx context.Context, id string) (*clerk.User, error) {
	return user.Get(ctx, id)
}

// LoginState is handed to the login page.
type LoginState struct {
	State          string   `json:"state"`
	Providers      []string `json:"providers"`
	GoogleClientID string   `json:"googleClientId"`
	Next           string   `json:"next,omitempty"`
}

// ConnectResult describes a completed login.
type ConnectResult struct {
	User             *model.User `json:"user"`
	Message          string      `json:"message"`
	AlreadyConnected bool        `json:"alreadyConnected"`
}

// AuthService runs the identity provider login flows and keeps the
// session's login keys in sync with the users table.
type AuthService struct {
	users          *UserService
	google         GoogleExchanger
	clerk          ClerkUsers
	welcome        WelcomeEnqueuer
	providers      []string
	googleClientID string
}

// NewAuthService builds the service. clerkUsers may be nil when Clerk is not
// configured.
func NewAuthService(
	users *UserService,
	googleExchanger GoogleExchanger,
	clerkUsers ClerkUsers,
	welcome WelcomeEnqueuer,
	googleClientID string,
) *AuthService {
	providers := []string{ProviderGoogle}
	if clerkUsers != nil {
		providers = append(providers, ProviderClerk)
	}

	return &AuthService{
		users:          users,
		google:         googleExchanger,
		clerk:          clerkUsers,
		welcome:        welcome,
		providers:      providers,
		googleClientID: googleClientID,
	}
}

// IssueState stores a fresh anti-forgery token in the session.
func (s *AuthService) IssueState(sess *session.Session, next string) *LoginState {
	state := uuid.NewString()
	sess.SetState(state)

	return &LoginState{
		State:          state,
		Providers:      s.providers,
		GoogleClientID: s.googleClientID,
		Next:           next,
	}
}

// ConnectGoogle exchanges a one-time authorization code and logs the
// session in as the Google user.
func (s *AuthService) ConnectGoogle(ctx context.Context, sess *session.Session, state, code string) (*ConnectResult, error) {
	if state == "" || state != sess.State {
		return nil, errs.NewUnauthorizedError("Invalid state parameter", true)
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, googleError(err)
	}

	if sess.IsLoggedIn() && sess.Provider == ProviderGoogle && sess.ProviderID == profile.ID {
		userID, _ := sess.CurrentUserID()
		return &ConnectResult{
			User:             s.users.GetUserInfo(ctx, userID),
			Message:          "Current user is already connected.",
			AlreadyConnected: true,
		}, nil
	}

	return s.login(ctx, sess, session.Identity{
		Provider:    ProviderGoogle,
		ProviderID:  profile.ID,
		AccessToken: profile.AccessToken,
		Username:    profile.Name,
		Email:       profile.Email,
		Picture:     profile.Picture,
	})
}

// ConnectClerk logs the session in as the Clerk user whose session token
// was verified by the Clerk middleware.
func (s *AuthService) ConnectClerk(ctx context.Context, sess *session.Session, clerkUserID string) (*ConnectResult, error) {
	if s.clerk == nil {
		return nil, errs.NewNotFoundError("Clerk login is not enabled", true, nil)
	}

	if sess.IsLoggedIn() && sess.Provider == ProviderClerk && sess.ProviderID == clerkUserID {
		userID, _ := sess.CurrentUserID()
		return &ConnectResult{
			User:             s.users.GetUserInfo(ctx, userID),
			Message:          "Current user is already connected.",
			AlreadyConnected: true,
		}, nil
	}

	u, err := s.clerk.Get(ctx, clerkUserID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("clerk_user_id", clerkUserID).Msg("failed to fetch clerk user")
		return nil, errs.NewServiceUnavailableError("Could not load the Clerk profile", true)
	}

	identity := clerkIdentity(u)
	if identity.Email == "" {
		return nil, errs.NewForbiddenError("Your Clerk account has no email address", true)
	}
	return s.login(ctx, sess, identity)
}

// Disconnect logs the session out. Google tokens are revoked on a best
// effort basis.
func (s *AuthService) Disconnect(ctx context.Context, sess *session.Session) {
	if !sess.IsLoggedIn() && sess.Provider == "" {
		return
	}
	if sess.Provider == ProviderGoogle && sess.AccessToken != "" {
		if err := s.google.Revoke(ctx, sess.AccessToken); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to revoke google token")
		}
	}
	sess.ClearLogin()
}

func (s *AuthService) login(ctx context.Context, sess *session.Session, identity session.Identity) (*ConnectResult, error) {
	log := zerolog.Ctx(ctx)
	sess.SetIdentity(identity)

	userID, found := s.users.GetUserID(ctx, identity.Email)
	if !found {
		var err error
		userID, err = s.users.CreateUser(ctx, sess)
		if err != nil {
			return nil, err
		}

		log.Info().Int64("user_id", userID).Str("provider", identity.Provider).Msg("user created")

		if s.welcome != nil {
			if err := s.welcome.EnqueueWelcomeEmail(ctx, identity.Email, identity.Username, identity.Provider); err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("failed to enqueue welcome email")
			}
		}
	}

	sess.Login(userID)

	return &ConnectResult{
		User:    s.users.GetUserInfo(ctx, userID),
		Message: "Welcome, " + identity.Username + "!",
	}, nil
}

func googleError(err error) error {
	switch {
	case errors.Is(err, google.ErrInvalidCode):
		return errs.NewUnauthorizedError("Failed to upgrade the authorization code", true)
	case errors.Is(err, google.ErrEmailNotVerified):
		return errs.NewForbiddenError("Your Google email address is not verified", true)
	case errors.Is(err, google.ErrUnavailable):
		return errs.NewServiceUnavailableError("Google sign-in is temporarily unavailable", true)
	default:
		return err
	}
}

func clerkIdentity(u *clerk.User) session.Identity {
	var names []string
	if u.FirstName != nil && *u.FirstName != "" {
		names = append(names, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		names = append(names, *u.LastName)
	}

	identity := session.Identity{
		Provider:   ProviderClerk,
		ProviderID: u.ID,
		Username:   strings.Join(names, " "),
	}
	if u.ImageURL != nil {
		identity.Picture = *u.ImageURL
	}

	for _, addr := range u.EmailAddresses {
		if addr == nil {
			continue
		}
		if u.PrimaryEmailAddressID != nil && addr.ID == *u.PrimaryEmailAddressID {
			identity.Email = addr.EmailAddress
			break
		}
		if identity.Email == "" {
			identity.Email = addr.EmailAddress
		}
	}

	if identity.Username == "" {
		identity.Username = identity.Email
	}
	return identity
}
