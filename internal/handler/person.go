package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
	"github.com/deppfellow/phonebook/internal/validation"
)

// ListPersonsRequest carries no input.
type ListPersonsRequest struct{}

func (r *ListPersonsRequest) Validate() error { return nil }

// PersonIDRequest addresses a single record. The identifier is checked by
// the store, which reports malformed ones.
type PersonIDRequest struct {
	ID string `param:"id" json:"-"`
}

func (r *PersonIDRequest) Validate() error { return nil }

// CreatePersonRequest is the POST /api/persons body.
type CreatePersonRequest struct {
	validation.ContactFields
}

// UpdatePersonRequest is the PUT /api/persons/:id body. Nil means the field
// was absent from the JSON body.
type UpdatePersonRequest struct {
	ID     string  `param:"id" json:"-"`
	Name   *string `json:"name"`
	Number *string `json:"number"`
}

func (r *UpdatePersonRequest) Validate() error {
	if r.Name == nil && r.Number == nil {
		return validation.CustomValidationErrors{
			{Field: "name", Message: "is required"},
			{Field: "number", Message: "is required"},
		}
	}
	return nil
}

type PersonHandler struct {
	Handler
	personService *service.PersonService
}

func NewPersonHandler(s *server.Server, personService *service.PersonService) *PersonHandler {
	return &PersonHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

func (h *PersonHandler) ListPersons(c echo.Context, _ *ListPersonsRequest) ([]repository.Person, error) {
	return h.personService.List(c.Request().Context())
}

func (h *PersonHandler) GetPerson(c echo.Context, req *PersonIDRequest) (*repository.Person, error) {
	return h.personService.Get(c.Request().Context(), req.ID)
}

func (h *PersonHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (*repository.Person, error) {
	return h.personService.Create(c.Request().Context(), req.Name, req.Number)
}

func (h *PersonHandler) UpdatePerson(c echo.Context, req *UpdatePersonRequest) (*repository.Person, error) {
	return h.personService.Update(c.Request().Context(), req.ID, req.Name, req.Number)
}

func (h *PersonHandler) DeletePerson(c echo.Context, req *PersonIDRequest) error {
	return h.personService.Delete(c.Request().Context(), req.ID)
}
