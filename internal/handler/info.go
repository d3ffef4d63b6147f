package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
)

// InfoTimeLayout renders the request time, e.g.
// "Sat Oct 17 2026 14:03:07 GMT+0200 (CEST)".
const InfoTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Both values are generated server side, so nothing needs escaping.
const infoPageFormat = `<div><p>Phonebook has info for %d people</p><p>%s</p></div>`

// InfoHandler serves the human readable summary page.
type InfoHandler struct {
	Handler
	personService *service.PersonService

	// now is replaced in tests.
	now func() time.Time
}

func NewInfoHandler(s *server.Server, personService *service.PersonService) *InfoHandler {
	return &InfoHandler{
		Handler:       NewHandler(s),
		personService: personService,
		now:           time.Now,
	}
}

// GetInfo counts the stored records at request time.
func (h *InfoHandler) GetInfo(c echo.Context) error {
	count, err := h.personService.Count(c.Request().Context())
	if err != nil {
		return err
	}

	page := fmt.Sprintf(infoPageFormat, count, h.now().Format(InfoTimeLayout))
	return c.HTML(http.StatusOK, page)
}
