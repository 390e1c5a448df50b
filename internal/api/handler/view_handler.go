package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/router"
)

// ViewHandler serves the menu screens through the role router.
type ViewHandler struct {
	router *router.Router
}

func NewViewHandler(r *router.Router) *ViewHandler {
	return &ViewHandler{router: r}
}

// Home sends the user to the first screen of their menu.
func (h *ViewHandler) Home(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view, ok := router.DefaultView(id)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "no screens are available for this account")
	}
	to := "/views/" + string(view)
	if msg := c.QueryParam("msg"); msg != "" {
		to += "?msg=" + url.QueryEscape(msg)
	}
	return redirect(c, to)
}

// Show renders GET /views/:view.
func (h *ViewHandler) Show(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view := router.ViewID(c.Param("view"))

	page, err := h.router.Dispatch(c.Request().Context(), id, view)
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, view, page, "")
}
