// Package google implements the Google OAuth one-time-code login.
//
// The browser obtains an authorization code from Google's JS client and
// posts it to us; Verifier exchanges it for an access token, reads the
// userinfo profile and can later revoke the token on logout.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Endpoints are variables so tests can point them at httptest servers.
var (
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	revokeURL   = "https://oauth2.googleapis.com/revoke"
)

const retryBackoff = 500 * time.Millisecond

var (
	ErrInvalidCode      = errors.New("google: invalid or expired authorization code")
	ErrEmailNotVerified = errors.New("google: email not verified")
	ErrUnavailable      = errors.New("google: service unavailable")
	ErrInvalidResponse  = errors.New("google: invalid response")
)

// Profile is the Google identity of a user plus the access token that was
// issued for it.
type Profile struct {
	ID          string
	Email       string
	Name        string
	Picture     string
	AccessToken string
}

// Verifier talks to Google's OAuth endpoints.
type Verifier struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
	log          zerolog.Logger
}

// NewVerifier creates a verifier. redirectURI is "postmessage" for codes
// obtained by the JS client.
func NewVerifier(clientID, clientSecret, redirectURI string, logger *zerolog.Logger) *Verifier {
	return &Verifier{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          logger.With().Str("adapter", "google_oauth").Logger(),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type userinfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades an authorization code for the user's profile.
func (v *Verifier) Exchange(ctx context.Context, code string) (*Profile, error) {
	accessToken, err := v.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := v.fetchUserinfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	v.log.Debug().Str("email", info.Email).Msg("google oauth success")

	return &Profile{
		ID:          info.ID,
		Email:       info.Email,
		Name:        info.Name,
		Picture:     info.Picture,
		AccessToken: accessToken,
	}, nil
}

// Revoke invalidates an access token. Google answers 400 for tokens that are
// already expired or revoked.
func (v *Verifier) Revoke(ctx context.Context, accessToken string) error {
	req, err := newFormRequest(ctx, revokeURL, url.Values{"token": {accessToken}})
	if err != nil {
		return err
	}

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google: revoke failed with status %d", resp.StatusCode)
	}
	return nil
}

func (v *Verifier) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", v.clientID)
	form.Set("client_secret", v.clientSecret)
	form.Set("redirect_uri", v.redirectURI)

	req, err := newFormRequest(ctx, tokenURL, form)
	if err != nil {
		return "", err
	}

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.Error().Err(err).Msg("google oauth token exchange failed")
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ErrInvalidResponse
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.Unmarshal(body, &errResp)
		v.log.Error().
			Int("status", resp.StatusCode).
			Str("error", errResp.Error).
			Msg("google oauth token exchange failed")

		if resp.StatusCode == http.StatusBadRequest {
			return "", ErrInvalidCode
		}
		return "", ErrUnavailable
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		v.log.Error().Msg("google oauth token response missing access_token")
		return "", ErrInvalidResponse
	}

	return token.AccessToken, nil
}

func (v *Verifier) fetchUserinfo(ctx context.Context, accessToken string) (*userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.Error().Err(err).Msg("google oauth userinfo failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.log.Error().Int("status", resp.StatusCode).Msg("google oauth userinfo failed")
		return nil, ErrUnavailable
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, ErrInvalidResponse
	}
	if info.ID == "" || info.Email == "" {
		return nil, ErrInvalidResponse
	}

	return &info, nil
}

func newFormRequest(ctx context.Context, endpoint string, form url.Values) (*http.Request, error) {
	encoded := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// The retry needs to replay the body.
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}
	return req, nil
}

// doWithRetry retries once after a network error or a 5xx response.
func (v *Verifier) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retry := req
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry = req.Clone(ctx)
		retry.Body = body
	}
	return v.httpClient.Do(retry)
}
