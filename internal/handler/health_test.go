package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     []healthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all healthy",
			checks:     []healthCheck{{name: "database", probe: ok}, {name: "redis", probe: ok}},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name:       "redis down",
			checks:     []healthCheck{{name: "database", probe: ok}, {name: "redis", probe: down}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
		},
		{
			name:       "no checks configured",
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			h := &HealthHandler{Handler: NewHandler(s), checks: tt.checks, timeout: time.Second}
			e := newTestEcho(s)
			e.GET("/status", h.CheckHealth)

			rec := do(e, http.MethodGet, "/status", "")
			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "test", body["environment"])
			assert.Len(t, body["checks"], len(tt.checks))
		})
	}
}

func TestCheckHealth_ProbeHonoursTimeout(t *testing.T) {
	s := newTestServer()
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	h := &HealthHandler{Handler: NewHandler(s), checks: []healthCheck{{name: "database", probe: slow}}, timeout: 10 * time.Millisecond}
	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := do(e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadline exceeded")
}
