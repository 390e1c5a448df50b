package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// RBAC enforces user-type access control. It must run after Sessions.Require.
func RBAC(allowed ...domain.UserType) echo.MiddlewareFunc {
	set := make(map[domain.UserType]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity(c)
			if id == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if _, ok := set[id.Type()]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "this page is not available for your account")
			}
			return next(c)
		}
	}
}
