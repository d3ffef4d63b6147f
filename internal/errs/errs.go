// Package errs defines the error types returned to API clients.
//
// Every failure the phonebook reports goes through HTTPError so that
// clients always receive the same JSON shape:
//
//	{ "error": "name or number missing", "code": "MISSING_FIELD", "errors": [...] }
//
// The only exception is a not-found error without a message, which the
// global error handler writes as a bare 404 with an empty body.
package errs
