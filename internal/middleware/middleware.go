// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request IDs, request logging, CORS, tracing and panic
// recovery. It also owns the error mapper that turns every failure
// into the phonebook's error responses.
package middleware
