package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useEndpoints points the package endpoints at test servers for one test.
func useEndpoints(t *testing.T, token, userinfo, revoke string) {
	t.Helper()
	prevToken, prevUserinfo, prevRevoke := tokenURL, userinfoURL, revokeURL
	tokenURL, userinfoURL, revokeURL = token, userinfo, revoke
	t.Cleanup(func() {
		tokenURL, userinfoURL, revokeURL = prevToken, prevUserinfo, prevRevoke
	})
}

func newTestVerifier() *Verifier {
	log := zerolog.Nop()
	return NewVerifier("test_client_id", "test_client_secret", "postmessage", &log)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func userinfoServer(t *testing.T, info userinfoResponse) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test_access_token", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, info)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier_Exchange_Success(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "one_time_code", r.FormValue("code"))
		assert.Equal(t, "test_client_id", r.FormValue("client_id"))
		assert.Equal(t, "test_client_secret", r.FormValue("client_secret"))
		assert.Equal(t, "postmessage", r.FormValue("redirect_uri"))

		writeJSON(t, w, http.StatusOK, tokenResponse{AccessToken: "test_access_token", TokenType: "Bearer"})
	}))
	defer tokenSrv.Close()

	infoSrv := userinfoServer(t, userinfoResponse{
		ID:            "google_user_123",
		Email:         "ada@example.com",
		VerifiedEmail: true,
		Name:          "Ada",
		Picture:       "https://example.com/ada.jpg",
	})
	useEndpoints(t, tokenSrv.URL, infoSrv.URL, "")

	profile, err := newTestVerifier().Exchange(context.Background(), "one_time_code")
	require.NoError(t, err)
	assert.Equal(t, &Profile{
		ID:          "google_user_123",
		Email:       "ada@example.com",
		Name:        "Ada",
		Picture:     "https://example.com/ada.jpg",
		AccessToken: "test_access_token",
	}, profile)
}

func TestVerifier_Exchange_InvalidCode(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, errorResponse{Error: "invalid_grant"})
	}))
	defer tokenSrv.Close()
	useEndpoints(t, tokenSrv.URL, "", "")

	_, err := newTestVerifier().Exchange(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifier_Exchange_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "one_time_code", r.FormValue("code"), "body is replayed on retry")

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, http.StatusOK, tokenResponse{AccessToken: "test_access_token"})
	}))
	defer tokenSrv.Close()

	infoSrv := userinfoServer(t, userinfoResponse{ID: "1", Email: "ada@example.com", VerifiedEmail: true})
	useEndpoints(t, tokenSrv.URL, infoSrv.URL, "")

	_, err := newTestVerifier().Exchange(context.Background(), "one_time_code")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestVerifier_Exchange_UnverifiedEmail(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenResponse{AccessToken: "test_access_token"})
	}))
	defer tokenSrv.Close()

	infoSrv := userinfoServer(t, userinfoResponse{ID: "1", Email: "ada@example.com", VerifiedEmail: false})
	useEndpoints(t, tokenSrv.URL, infoSrv.URL, "")

	_, err := newTestVerifier().Exchange(context.Background(), "one_time_code")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestVerifier_Revoke(t *testing.T) {
	revokeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("token") == "good" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer revokeSrv.Close()
	useEndpoints(t, "", "", revokeSrv.URL)

	v := newTestVerifier()
	assert.NoError(t, v.Revoke(context.Background(), "good"))
	assert.Error(t, v.Revoke(context.Background(), "expired"))
}
