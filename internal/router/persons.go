package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/handler"
)

// registerPersonRoutes mounts contact CRUD under /api/persons.
func registerPersonRoutes(g *echo.Group, h *handler.Handlers) {
	ph := h.Person

	g.GET("", handler.Handle(ph.Handler, ph.ListPersons, http.StatusOK,
		handler.NewRequest[handler.ListPersonsRequest]))

	g.POST("", handler.Handle(ph.Handler, ph.CreatePerson, http.StatusOK,
		handler.NewRequest[handler.CreatePersonRequest]))

	g.GET("/:id", handler.Handle(ph.Handler, ph.GetPerson, http.StatusOK,
		handler.NewRequest[handler.PersonIDRequest]))

	g.PUT("/:id", handler.Handle(ph.Handler, ph.UpdatePerson, http.StatusOK,
		handler.NewRequest[handler.UpdatePersonRequest]))

	g.DELETE("/:id", handler.HandleNoContent(ph.Handler, ph.DeletePerson, http.StatusNoContent,
		handler.NewRequest[handler.PersonIDRequest]))
}
