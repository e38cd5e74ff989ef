// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// sessions, login gating, Clerk token checks, request logging, CORS,
// rate limiting, tracing and panic recovery.
package middleware
