// Package handler is the HTTP entry point for business logic after the router.
//
// It binds requests, validates input using the validation package,
// and calls the service layer. Failures are returned as errors and
// rendered by the global error handler.
package handler
