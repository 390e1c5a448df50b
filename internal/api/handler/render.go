package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/api/middleware"
	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// ViewData is what every template receives.
type ViewData struct {
	Identity domain.Identity
	Menu     []router.NavigationAction
	Active   router.ViewID
	Page     any
	Error    string
	Flash    string
	CSRF     string
}

// NoticePage is a blocking message, typically a backend failure.
type NoticePage struct {
	Status  int
	Message string
}

// flashes are the only messages a redirect can ask for; the query value
// is a key, never text.
var flashes = map[string]string{
	"saved":      "Saved.",
	"deleted":    "Deleted.",
	"delivered":  "Shipment marked as delivered.",
	"shipped":    "Shipment registered.",
	"registered": "Registration successful. Please log in.",
	"expired":    "Your session has ended. Please log in again.",
	"logout":     "You have been logged out.",
}

func render(c echo.Context, status int, tmpl string, active router.ViewID, page any, errMsg string) error {
	id := middleware.Identity(c)
	csrf, _ := c.Get("csrf").(string)
	return c.Render(status, tmpl, ViewData{
		Identity: id,
		Menu:     router.BuildMenu(id),
		Active:   active,
		Page:     page,
		Error:    errMsg,
		Flash:    flashes[c.QueryParam("msg")],
		CSRF:     csrf,
	})
}

// renderPage renders a router page under its own template.
func renderPage(c echo.Context, status int, active router.ViewID, page router.Page, errMsg string) error {
	return render(c, status, page.Template(), active, page, errMsg)
}

// RenderNotice renders the notice page with status.
func RenderNotice(c echo.Context, status int, msg string) error {
	return render(c, status, "notice", "", NoticePage{Status: status, Message: msg}, "")
}

// validationMessage returns the message of a *domain.ValidationError in err.
func validationMessage(err error) (string, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error(), true
	}
	return "", false
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}
