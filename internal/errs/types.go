package errs

import (
	"net/http"
)

// Machine codes for the failures the phonebook reports.
const (
	CodeMissingField    = "MISSING_FIELD"
	CodeDuplicateName   = "DUPLICATE_NAME"
	CodeMalformattedID  = "MALFORMATTED_ID"
	CodeSchemaViolation = "SCHEMA_VIOLATION"
	CodeUnknownEndpoint = "UNKNOWN_ENDPOINT"
)

// Messages fixed by the public API.
const (
	MessageMalformattedID  = "malformatted id"
	MessageUnknownEndpoint = "unknown endpoint"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// An empty message makes the global error handler answer with an empty body.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error message.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// MalformattedIDError is the 400 returned for identifiers the store cannot parse.
func MalformattedIDError() *HTTPError {
	code := CodeMalformattedID
	return NewBadRequestError(MessageMalformattedID, &code, nil)
}

// UnknownEndpointError is the 404 returned for unmatched routes.
func UnknownEndpointError() *HTTPError {
	code := CodeUnknownEndpoint
	return NewNotFoundError(MessageUnknownEndpoint, &code)
}

// SchemaViolationError converts a store-side schema failure into a 400
// carrying the store's own message.
func SchemaViolationError(message string, fieldErrors []FieldError) *HTTPError {
	code := CodeSchemaViolation
	return NewBadRequestError(message, &code, fieldErrors)
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), nil, nil)
}
