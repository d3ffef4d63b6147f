package errs

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorJSON(t *testing.T) {
	code := CodeMissingField
	err := NewBadRequestError("name missing", &code, []FieldError{{Field: "name", Error: "is required"}})

	body, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	assert.JSONEq(t, `{
		"error": "name missing",
		"code": "MISSING_FIELD",
		"errors": [{"field": "name", "error": "is required"}]
	}`, string(body))
}

func TestHTTPErrorJSONOmitsEmptyFieldErrors(t *testing.T) {
	body, err := json.Marshal(MalformattedIDError())
	require.NoError(t, err)

	assert.JSONEq(t, `{"error": "malformatted id", "code": "MALFORMATTED_ID"}`, string(body))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *HTTPError
		status  int
		code    string
		message string
	}{
		{"bad request default code", NewBadRequestError("nope", nil, nil), http.StatusBadRequest, "BAD_REQUEST", "nope"},
		{"not found without body", NewNotFoundError("", nil), http.StatusNotFound, "NOT_FOUND", ""},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"malformatted id", MalformattedIDError(), http.StatusBadRequest, CodeMalformattedID, MessageMalformattedID},
		{"unknown endpoint", UnknownEndpointError(), http.StatusNotFound, CodeUnknownEndpoint, MessageUnknownEndpoint},
		{"schema", SchemaViolationError("person validation failed: name is required", nil), http.StatusBadRequest, CodeSchemaViolation, "person validation failed: name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

func TestHTTPErrorHelpers(t *testing.T) {
	notFound := NewNotFoundError("", nil)
	assert.False(t, notFound.HasBody())
	assert.True(t, UnknownEndpointError().HasBody())

	wrapped := errors.Wrap(MalformattedIDError(), "get person")
	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	assert.Equal(t, "METHOD_NOT_ALLOWED", MakeUpperCaseWithUnderscores("Method Not Allowed"))
}
