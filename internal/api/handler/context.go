package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/api/middleware"
	"github.com/99minutos/logistics-console/internal/core/domain"
)

// ctxIdentity returns the identity injected by the session middleware.
// Its absence means the route was registered without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id := middleware.Identity(c)
	if id == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return id, nil
}

// pathID parses the :id route parameter. A malformed id is a missing page.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "no such record")
	}
	return id, nil
}
