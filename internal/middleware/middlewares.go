package middleware

import (
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component used by the router so they
// are built once and reused.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// Session loads and persists the browser session and gates routes on
	// login.
	Session *SessionMiddleware

	// Auth verifies Clerk session tokens on the Clerk connect route.
	Auth *AuthMiddleware

	// ContextEnhancer builds the request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing installs New Relic transactions and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit throttles the login endpoints.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components. When New Relic is not
// configured the tracing middleware degrades to a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Session:         NewSessionMiddleware(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
