package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/validation"
)

// MessageDuplicateName is returned when the reject policy finds the name taken.
const MessageDuplicateName = "name must be unique"

// PersonService applies the contact rules on top of the record store.
type PersonService struct {
	server *server.Server
	repo   repository.PersonRepository

	// rejectDuplicates enables the DuplicateName check on create.
	rejectDuplicates bool
}

func NewPersonService(s *server.Server, repo repository.PersonRepository) *PersonService {
	return &PersonService{
		server:           s,
		repo:             repo,
		rejectDuplicates: s.Config.Store.RejectsDuplicateNames(),
	}
}

// List returns every record in store order.
func (ps *PersonService) List(ctx context.Context) ([]repository.Person, error) {
	return ps.repo.FindAll(ctx)
}

// Count returns the number of stored records.
func (ps *PersonService) Count(ctx context.Context) (int, error) {
	return ps.repo.Count(ctx)
}

// Get returns repository.ErrNotFound or repository.ErrMalformedID on failure.
func (ps *PersonService) Get(ctx context.Context, id string) (*repository.Person, error) {
	return ps.repo.FindByID(ctx, id)
}

// Create validates a candidate record and stores it.
//
// Fails with a MISSING_FIELD error when name or number is empty and, under
// the reject policy, with DUPLICATE_NAME when the name is already stored.
// The store is not touched when validation fails.
func (ps *PersonService) Create(ctx context.Context, name, number string) (*repository.Person, error) {
	if err := validation.ValidateContact(name, number); err != nil {
		return nil, err
	}

	if ps.rejectDuplicates {
		taken, err := ps.nameTaken(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			code := errs.CodeDuplicateName
			return nil, errs.NewBadRequestError(MessageDuplicateName, &code, []errs.FieldError{
				{Field: "name", Error: "must be unique"},
			})
		}
	}

	person, err := ps.repo.Insert(ctx, repository.PersonFields{Name: name, Number: number})
	if err != nil {
		return nil, err
	}

	ps.server.Logger.Debug().
		Str("person_id", person.ID).
		Msg("person created")

	return person, nil
}

// Update replaces the fields present in the request. An absent (nil) field
// keeps its stored value; both absent is a MISSING_FIELD error. Present
// values go to the store as-is, so an empty string fails the store schema.
// Uniqueness is not re-checked.
func (ps *PersonService) Update(ctx context.Context, id string, name, number *string) (*repository.Person, error) {
	if name == nil && number == nil {
		return nil, validation.ValidateContact("", "")
	}

	var fields repository.PersonFields
	if name == nil || number == nil {
		current, err := ps.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		fields = repository.PersonFields{Name: current.Name, Number: current.Number}
	}
	if name != nil {
		fields.Name = *name
	}
	if number != nil {
		fields.Number = *number
	}

	return ps.repo.UpdateByID(ctx, id, fields)
}

// Delete removes a record. Deleting an unknown identifier succeeds.
func (ps *PersonService) Delete(ctx context.Context, id string) error {
	return ps.repo.DeleteByID(ctx, id)
}

func (ps *PersonService) nameTaken(ctx context.Context, name string) (bool, error) {
	persons, err := ps.repo.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("checking name uniqueness: %w", err)
	}
	for _, p := range persons {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
