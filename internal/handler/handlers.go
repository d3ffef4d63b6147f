package handler

import (
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// receives one object instead of many.
type Handlers struct {
	Health  *HealthHandler  // store connectivity for monitors
	OpenAPI *OpenAPIHandler // docs UI
	Info    *InfoHandler    // record count summary page
	Person  *PersonHandler  // contact CRUD
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Info:    NewInfoHandler(s, services.Persons),
		Person:  NewPersonHandler(s, services.Persons),
	}
}
