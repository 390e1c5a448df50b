package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/api/handler"
	"github.com/99minutos/logistics-console/internal/api/middleware"
	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
)

// Deps are the collaborators the web console is built from.
type Deps struct {
	Accounts  handler.Registrar
	Sessions  *middleware.Sessions
	Backend   handler.Pinger
	Companies ports.CompanyService
	Clients   ports.ClientService
	Employees ports.EmployeeService
	Offices   ports.OfficeService
	Shipments ports.ShipmentService
	Reports   ports.ReportService
	Logger    zerolog.Logger

	// CookieSecure marks the CSRF cookie Secure.
	CookieSecure bool
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// entityRoutes is the route surface of one EntityForms.
type entityRoutes interface {
	Base() string
	New(echo.Context) error
	Create(echo.Context) error
	Edit(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "console",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper:        healthSkipper,
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.CookieSecure,
		CookieSameSite: http.SameSiteStrictMode,
	}))

	// --- Dependencies ---
	views := router.New(router.Views(router.Services{
		Companies: d.Companies,
		Clients:   d.Clients,
		Employees: d.Employees,
		Offices:   d.Offices,
		Shipments: d.Shipments,
	}))
	authHandler := handler.NewAuthHandler(d.Accounts, d.Sessions, d.Logger)
	viewHandler := handler.NewViewHandler(views)
	shipmentHandler := handler.NewShipmentHandler(d.Shipments, d.Clients)
	reportHandler := handler.NewReportHandler(d.Shipments, d.Reports, views)

	authed := []echo.MiddlewareFunc{d.Sessions.Require()}
	employee := []echo.MiddlewareFunc{d.Sessions.Require(), middleware.RBAC(domain.UserTypeEmployee)}

	// --- Auth routes ---
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout, authed...)

	// --- Screens ---
	e.GET("/", viewHandler.Home, authed...)
	e.GET("/views/:view", viewHandler.Show, authed...)

	// --- Entity forms (employees only) ---
	for _, f := range []entityRoutes{
		handler.NewCompanyForms(d.Companies),
		handler.NewClientForms(d.Clients),
		handler.NewEmployeeForms(d.Employees, d.Offices),
		handler.NewOfficeForms(d.Offices),
	} {
		base := f.Base()
		e.GET(base+"/new", f.New, employee...)
		e.POST(base, f.Create, employee...)
		e.GET(base+"/:id/edit", f.Edit, employee...)
		e.POST(base+"/:id", f.Update, employee...)
		e.POST(base+"/:id/delete", f.Delete, employee...)
	}

	// --- Shipments (employees only) ---
	e.POST("/shipments", shipmentHandler.Register, employee...)
	e.POST("/shipments/:id/deliver", shipmentHandler.Deliver, employee...)
	e.POST("/shipments/:id/delete", shipmentHandler.Delete, employee...)

	// --- Reports (employees only) ---
	e.GET("/reports/not-delivered", reportHandler.NotDelivered, employee...)
	e.GET("/reports/by-status", reportHandler.ByStatus, employee...)
	e.GET("/reports/by-employee", reportHandler.ByEmployee, employee...)
	e.GET("/reports/sent", reportHandler.Sent, employee...)
	e.GET("/reports/received", reportHandler.Received, employee...)
	e.GET("/reports/revenue", reportHandler.Revenue, employee...)

	// --- Health and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Backend)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the backend reachable?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}

func healthSkipper(c echo.Context) bool {
	switch c.Path() {
	case "/health", "/health/ready", "/metrics":
		return true
	}
	return false
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
