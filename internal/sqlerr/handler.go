package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/phonebook/internal/errs"
)

// persons_number_check
var checkConstraintRe = regexp.MustCompile(`^[^_]+_([^_]+)_check$`)

// violation describes how one class of Postgres constraint failure is
// reported to the client. The persons schema only has NOT NULL and
// CHECK constraints.
type violation struct {
	action     string
	fieldError string
	message    func(field string) string
}

var violations = map[Code]violation{
	NotNullViolation: {
		action:     "REQUIRED",
		fieldError: "is required",
		message: func(field string) string {
			if field == "" {
				field = "field"
			}
			return fmt.Sprintf("The %s is required", field)
		},
	},
	CheckViolation: {
		action:     "INVALID",
		fieldError: "does not meet required conditions",
		message: func(field string) string {
			if field == "" {
				return "One or more values do not meet required conditions"
			}
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		},
	},
}

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError converts a store error into an *errs.HTTPError.
//
// NOT NULL and CHECK violations on the persons table become 400s carrying a
// readable message and a PERSON_<ACTION> code. pgx.ErrNoRows becomes an
// empty 404. Anything else is an internal error.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromViolation(ConvertPgError(pgerr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("", nil)
	}

	return errs.NewInternalServerError()
}

func fromViolation(sqlErr *Error) error {
	v, ok := violations[sqlErr.Code]
	if !ok {
		return errs.NewInternalServerError()
	}

	column := violatedColumn(sqlErr)
	code := fmt.Sprintf("%s_%s", strings.ToUpper(singular(sqlErr.TableName, "record")), v.action)
	message := v.message(humanizeText(column))

	var fieldErrors []errs.FieldError
	if v.fieldError != "" && column != "" {
		fieldErrors = []errs.FieldError{{Field: strings.ToLower(column), Error: v.fieldError}}
	}

	return errs.NewBadRequestError(message, &code, fieldErrors)
}

// violatedColumn returns the column named by the error, falling back to
// the default constraint naming since Postgres leaves ColumnName empty
// for CHECK failures.
func violatedColumn(sqlErr *Error) string {
	if sqlErr.ColumnName == "" && sqlErr.Code == CheckViolation {
		return extractColumnForCheckViolation(sqlErr.ConstraintName)
	}
	return sqlErr.ColumnName
}

func singular(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if len(name) > 1 && strings.HasSuffix(strings.ToLower(name), "s") {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText turns "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

func extractColumnForCheckViolation(constraintName string) string {
	if m := checkConstraintRe.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}
