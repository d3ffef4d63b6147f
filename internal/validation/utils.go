package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/phonebook/internal/errs"
)

// validate is shared by every payload; validator caches struct metadata
// and is safe for concurrent use.
var validate = validator.New()

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validate.Struct(req)
// - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// messageRequired is the field message produced by the "required" tag.
const messageRequired = "is required"

// MessageInvalidBody is sent for any body that cannot be bound. The
// binder's own message names Go types, so it only goes to the log.
const MessageInvalidBody = "invalid request body"

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the struct from path params and the JSON body.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) with field-level errors if validation fails.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		zerolog.Ctx(c.Request().Context()).Warn().
			Err(err).
			Msg("request body could not be bound")
		return errs.NewBadRequestError(MessageInvalidBody, nil, nil)
	}

	return ValidatePayload(payload)
}

// ValidatePayload runs payload.Validate() and converts a failure into a
// 400 *errs.HTTPError. Nil means the payload is valid.
func ValidatePayload(payload Validatable) error {
	err := payload.Validate()
	if err == nil {
		return nil
	}

	fieldErrors := extractValidationError(err)
	if fieldErrors == nil {
		return errs.ValidationError(err)
	}

	message, code := describe(fieldErrors)
	return errs.NewBadRequestError(message, code, fieldErrors)
}

// describe builds the client message for a set of field errors.
//
// When every failure is a missing field the message lists them, e.g.
// "name or number missing", and the code is MISSING_FIELD.
func describe(fieldErrors []errs.FieldError) (string, *string) {
	missing := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Error != messageRequired {
			return "Validation failed", nil
		}
		missing = append(missing, fe.Field)
	}

	code := errs.CodeMissingField
	return strings.Join(missing, " or ") + " missing", &code
}

// extractValidationError converts validator and custom errors into field errors.
// It returns nil for any other error type.
func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	// Convert validator.ValidationErrors into user-friendly messages.
	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = messageRequired

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			// Fallback for tags not explicitly handled above.
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return fieldErrors
}
