// Package app assembles the session gate, gateway and services shared by the
// web and terminal consoles.
package app

import (
	"time"

	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
	"github.com/99minutos/logistics-console/internal/core/service"
	"github.com/99minutos/logistics-console/internal/core/session"
	"github.com/99minutos/logistics-console/internal/infrastructure/backend"
	"github.com/99minutos/logistics-console/internal/infrastructure/config"
	"github.com/99minutos/logistics-console/internal/pkg/metrics"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
	"github.com/99minutos/logistics-console/pkg/logger"
)

// Core is the backend gateway and the services built on it. Services carry
// no credential of their own; each call uses the session bound to its
// context.
type Core struct {
	Backend *backend.AuthClient
	Router  *router.Router

	Companies ports.CompanyService
	Clients   ports.ClientService
	Employees ports.EmployeeService
	Offices   ports.OfficeService
	Shipments ports.ShipmentService
	Reports   ports.ReportService
}

// NewCore wires the core against the backend described by cfg. The logger
// singleton must be initialised.
func NewCore(cfg config.BackendConfig) *Core {
	client := backend.NewClient(backend.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	authClient := backend.NewAuthClient(client, logger.Component("auth"))

	gw := backend.NewGateway(client, session.ContextLocator{}, logger.Component("gateway"))
	v := validation.New()
	svcLog := logger.Component("service")

	c := &Core{
		Backend:   authClient,
		Companies: service.NewCompanyService(gw, v, svcLog),
		Clients:   service.NewClientService(gw, v, svcLog),
		Employees: service.NewEmployeeService(gw, v, svcLog),
		Offices:   service.NewOfficeService(gw, v, svcLog),
		Shipments: service.NewShipmentService(gw, v, svcLog),
		Reports:   service.NewReportService(gw, svcLog),
	}
	c.Router = router.New(router.Views(router.Services{
		Companies: c.Companies,
		Clients:   c.Clients,
		Employees: c.Employees,
		Offices:   c.Offices,
		Shipments: c.Shipments,
	}))
	return c
}

// NewRegistry returns a registry of browser sessions that verifies logins
// against the backend. Sessions idle for longer than idle are dropped.
func (c *Core) NewRegistry(idle time.Duration) *session.Registry {
	reg := session.NewRegistry(c.Backend, logger.Component("session"), idle)
	reg.Observe(metrics.SessionObserver)
	return reg
}

// NewGate returns a single session for a terminal console. Bind it to the
// context of every call with session.WithGate.
func (c *Core) NewGate() *session.Gate {
	g := session.NewGate(session.NewStore(), c.Backend, logger.Component("session"))
	g.OnChange(metrics.SessionObserver())
	return g
}
