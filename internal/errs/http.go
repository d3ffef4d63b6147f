package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "number", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "name").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and is serialized
// directly to JSON by the global error handler.
// Fields:
//   - Message: human-friendly message, sent as "error".
//   - Code: machine-friendly error code (e.g. "MISSING_FIELD").
//   - Status: HTTP status code, not part of the body.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
	Status  int    `json:"-"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status, only the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// HasBody reports whether the error should be written with a JSON body.
// A not-found error with no message is written as an empty 404.
func (e *HTTPError) HasBody() bool {
	return e.Message != ""
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
