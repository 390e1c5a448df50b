package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/api/handler"
	"github.com/99minutos/logistics-console/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends requests whose session ended back to the login page.
//   - Drops responses that belong to a session that has since changed.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the user.
//   - Renders everything else as a blocking notice page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, domain.ErrStaleSession):
			_ = c.Redirect(http.StatusSeeOther, "/")
			return
		case errors.Is(err, domain.ErrNotAuthenticated), domain.IsUnauthorized(err):
			_ = c.Redirect(http.StatusSeeOther, "/login?msg=expired")
			return
		}

		code, msg := resolveError(err, log, c)
		if rerr := handler.RenderNotice(c, code, msg); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error()
	}

	if errors.Is(err, domain.ErrViewNotAllowed) {
		return http.StatusForbidden, "this page is not available for your account"
	}

	// The backend refused: carry its status to the user. Backend faults are
	// our upstream failing, not the user's request.
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		log.Warn().
			Int("backend_status", ge.Status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend rejected request")
		code := ge.Status
		if code < 400 || code >= 500 {
			code = http.StatusBadGateway
		}
		return code, ge.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
