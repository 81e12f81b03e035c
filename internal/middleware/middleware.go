// Package middleware holds the echo middleware for cross-cutting concerns:
// request ids, request-scoped loggers, tracing, CORS, per-client rate
// limiting, panic recovery, request metrics and the global error handler.
package middleware
