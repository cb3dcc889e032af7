// Package middleware contains the HTTP middleware shared by the API routes:
// request tracing, bearer-token authentication and per-client rate limiting.
package middleware
