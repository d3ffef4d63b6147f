package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "malformed id",
			err:     fmt.Errorf("find person: %w", repository.ErrMalformedID),
			status:  http.StatusBadRequest,
			code:    errs.CodeMalformattedID,
			message: "malformatted id",
		},
		{
			name:   "not found has no message",
			err:    repository.ErrNotFound,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:    "store schema",
			err:     &repository.SchemaError{Fields: []string{"number"}},
			status:  http.StatusBadRequest,
			code:    errs.CodeSchemaViolation,
			message: "person validation failed: number is required",
		},
		{
			name:    "unmatched route",
			err:     echo.ErrNotFound,
			status:  http.StatusNotFound,
			code:    errs.CodeUnknownEndpoint,
			message: "unknown endpoint",
		},
		{
			name:    "unmatched method",
			err:     echo.ErrMethodNotAllowed,
			status:  http.StatusNotFound,
			code:    errs.CodeUnknownEndpoint,
			message: "unknown endpoint",
		},
		{
			name:    "other echo error",
			err:     echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"),
			status:  http.StatusRequestEntityTooLarge,
			code:    "REQUEST_ENTITY_TOO_LARGE",
			message: "too big",
		},
		{
			name:    "postgres check violation",
			err:     fmt.Errorf("update person: %w", &pgconn.PgError{Code: "23514", TableName: "persons", ConstraintName: "persons_number_check"}),
			status:  http.StatusBadRequest,
			code:    "PERSON_INVALID",
			message: "The Number value does not meet required conditions",
		},
		{
			name:    "unknown",
			err:     errors.New("disk on fire"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapError(tt.err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}

	t.Run("http errors pass through", func(t *testing.T) {
		original := errs.NewBadRequestError("name missing", nil, nil)
		assert.Same(t, original, MapError(errors.Wrap(original, "create")))
	})
}

func newTestGlobalMiddlewares() *GlobalMiddlewares {
	logger := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{Config: config.DefaultConfig(), Logger: &logger})
}

func TestGlobalErrorHandler(t *testing.T) {
	global := newTestGlobalMiddlewares()
	e := echo.New()

	serve := func(err error) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/persons/x", nil), rec)
		global.GlobalErrorHandler(err, c)
		return rec
	}

	t.Run("not found is an empty 404", func(t *testing.T) {
		rec := serve(repository.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("malformed id body", func(t *testing.T) {
		rec := serve(repository.ErrMalformedID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformatted id","code":"MALFORMATTED_ID"}`, rec.Body.String())
	})

	t.Run("internal errors do not leak", func(t *testing.T) {
		rec := serve(errors.New("password=hunter2 rejected"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
	})

	t.Run("committed responses are left alone", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, c.String(http.StatusOK, "done"))

		global.GlobalErrorHandler(errors.New("late"), c)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.NotNil(t, GetLogger(c))
	require.NotNil(t, LoggerFromContext(c.Request().Context()))
}
