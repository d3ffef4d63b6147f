// Package repository handles all interactions with the record store.
//
// It defines the PersonRepository capability (find-all, count,
// find-by-id, insert, update-by-id, delete-by-id) and ships three implementations:
// in memory, PostgreSQL (pgx) and Redis. Handlers and services only
// ever see the interface.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record has the requested identifier.
	ErrNotFound = errors.New("repository: person not found")

	// ErrMalformedID is returned when an identifier cannot be a key of the
	// store at all. Callers match it with errors.Is.
	ErrMalformedID = errors.New("repository: malformatted id")
)

// Person is a stored contact record.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PersonFields holds the mutable part of a record.
type PersonFields struct {
	Name   string
	Number string
}

// PersonRepository is the record store capability.
//
// Implementations assign identifiers on Insert, serialize conflicting
// writes themselves, and enforce the persons schema (non-empty name and
// number) by returning *SchemaError or a driver specific error.
type PersonRepository interface {
	// FindAll returns every record in insertion order. Never nil.
	FindAll(ctx context.Context) ([]Person, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// FindByID returns ErrNotFound when the record does not exist.
	FindByID(ctx context.Context, id string) (*Person, error)

	// Insert stores a new record under a fresh identifier.
	Insert(ctx context.Context, fields PersonFields) (*Person, error)

	// UpdateByID replaces name and number of an existing record.
	UpdateByID(ctx context.Context, id string, fields PersonFields) (*Person, error)

	// DeleteByID removes the record if present. Deleting a missing
	// record is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// SchemaError reports a record rejected by the store's schema.
type SchemaError struct {
	// Fields lists the offending fields, in declaration order.
	Fields []string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f+" is required")
	}
	return "person validation failed: " + strings.Join(parts, ", ")
}

// checkSchema is the persons schema shared by the stores that do not
// have one of their own (memory, redis).
func checkSchema(fields PersonFields) error {
	var missing []string
	if fields.Name == "" {
		missing = append(missing, "name")
	}
	if fields.Number == "" {
		missing = append(missing, "number")
	}
	if missing != nil {
		return &SchemaError{Fields: missing}
	}
	return nil
}

// ParseID validates an identifier and returns its canonical form.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return parsed.String(), nil
}

// newID generates the identifier for a new record.
func newID() string {
	return uuid.NewString()
}
