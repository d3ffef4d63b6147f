package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/phonebook/internal/errs"
)

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name        string
		contact     [2]string
		wantMessage string
		wantFields  []string
	}{
		{name: "name missing", contact: [2]string{"", "040-123456"}, wantMessage: "name missing", wantFields: []string{"name"}},
		{name: "number missing", contact: [2]string{"Arto Hellas", ""}, wantMessage: "number missing", wantFields: []string{"number"}},
		{name: "both missing", contact: [2]string{"", ""}, wantMessage: "name or number missing", wantFields: []string{"name", "number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := requireHTTPError(t, ValidateContact(tt.contact[0], tt.contact[1]))

			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, errs.CodeMissingField, httpErr.Code)
			assert.Equal(t, tt.wantMessage, httpErr.Message)

			fields := make([]string, 0, len(httpErr.Errors))
			for _, fe := range httpErr.Errors {
				assert.Equal(t, "is required", fe.Error)
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateContact("Arto Hellas", "040-123456"))
	})

	t.Run("number has no format", func(t *testing.T) {
		assert.NoError(t, ValidateContact("Ada Lovelace", "not a number at all"))
	})
}

type rangedPayload struct {
	Age int `json:"age" validate:"min=18"`
}

func (p *rangedPayload) Validate() error { return validate.Struct(p) }

func TestValidatePayloadNonMissing(t *testing.T) {
	httpErr := requireHTTPError(t, ValidatePayload(&rangedPayload{Age: 3}))

	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "age", Error: "must be at least 18"}, httpErr.Errors[0])
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{{Field: "name", Message: "is required"}}
}

func TestValidatePayloadCustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, ValidatePayload(&customPayload{}))

	assert.Equal(t, "name missing", httpErr.Message)
	assert.Equal(t, errs.CodeMissingField, httpErr.Code)
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()

	newContext := func(body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/api/persons", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("binds and validates", func(t *testing.T) {
		var payload ContactFields
		require.NoError(t, BindAndValidate(newContext(`{"name":"Arto Hellas","number":"040-123456"}`), &payload))
		assert.Equal(t, "Arto Hellas", payload.Name)
		assert.Equal(t, "040-123456", payload.Number)
	})

	t.Run("malformed json", func(t *testing.T) {
		var payload ContactFields
		httpErr := requireHTTPError(t, BindAndValidate(newContext(`{"name":`), &payload))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, MessageInvalidBody, httpErr.Message)
	})

	t.Run("bind details are logged, not returned", func(t *testing.T) {
		var out bytes.Buffer
		c := newContext(`[1,2]`)
		c.SetRequest(c.Request().WithContext(zerolog.New(&out).WithContext(c.Request().Context())))

		var payload ContactFields
		httpErr := requireHTTPError(t, BindAndValidate(c, &payload))

		assert.Equal(t, MessageInvalidBody, httpErr.Message)
		assert.NotContains(t, httpErr.Message, "ContactFields")
		assert.Contains(t, out.String(), "Unmarshal type error")
	})

	t.Run("missing field", func(t *testing.T) {
		var payload ContactFields
		httpErr := requireHTTPError(t, BindAndValidate(newContext(`{"name":"Arto Hellas"}`), &payload))
		assert.Equal(t, "number missing", httpErr.Message)
	})
}
