package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// ReportHandler runs the report queries offered on the Reports screen.
type ReportHandler struct {
	shipments ports.ShipmentService
	reports   ports.ReportService
	router    *router.Router
}

func NewReportHandler(shipments ports.ShipmentService, reports ports.ReportService, r *router.Router) *ReportHandler {
	return &ReportHandler{shipments: shipments, reports: reports, router: r}
}

type shipmentQuery func(ctx context.Context) ([]domain.Shipment, error)

// NotDelivered handles GET /reports/not-delivered.
func (h *ReportHandler) NotDelivered(c echo.Context) error {
	return h.list(c, "Shipments not delivered", h.shipments.NotDelivered)
}

// ByStatus handles GET /reports/by-status?status=.
func (h *ReportHandler) ByStatus(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	return h.list(c, "Shipments with status "+status, func(ctx context.Context) ([]domain.Shipment, error) {
		return h.shipments.ByStatus(ctx, status)
	})
}

// ByEmployee handles GET /reports/by-employee?employeeId=.
func (h *ReportHandler) ByEmployee(c echo.Context) error {
	id := c.QueryParam("employeeId")
	return h.list(c, "Shipments registered by employee #"+id, func(ctx context.Context) ([]domain.Shipment, error) {
		return h.shipments.RegisteredByEmployee(ctx, id)
	})
}

// Sent handles GET /reports/sent?clientId=.
func (h *ReportHandler) Sent(c echo.Context) error {
	id := c.QueryParam("clientId")
	return h.list(c, "Shipments sent by client #"+id, func(ctx context.Context) ([]domain.Shipment, error) {
		return h.shipments.SentByClient(ctx, id)
	})
}

// Received handles GET /reports/received?clientId=.
func (h *ReportHandler) Received(c echo.Context) error {
	id := c.QueryParam("clientId")
	return h.list(c, "Shipments received by client #"+id, func(ctx context.Context) ([]domain.Shipment, error) {
		return h.shipments.ReceivedByClient(ctx, id)
	})
}

// Revenue handles GET /reports/revenue?startDate=&endDate=.
func (h *ReportHandler) Revenue(c echo.Context) error {
	rev, err := h.reports.Revenue(c.Request().Context(), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return h.fail(c, err)
	}
	return renderPage(c, http.StatusOK, router.ViewReports, router.RevenuePage{Revenue: *rev}, "")
}

func (h *ReportHandler) list(c echo.Context, title string, q shipmentQuery) error {
	list, err := q(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	page := router.ShipmentsPage{Title: title, Shipments: list, Deliverable: true}
	return renderPage(c, http.StatusOK, router.ViewReports, page, "")
}

// fail shows invalid report input on the Reports screen itself.
func (h *ReportHandler) fail(c echo.Context, err error) error {
	msg, ok := validationMessage(err)
	if !ok {
		return err
	}
	id, ierr := ctxIdentity(c)
	if ierr != nil {
		return ierr
	}
	page, derr := h.router.Dispatch(c.Request().Context(), id, router.ViewReports)
	if derr != nil {
		return derr
	}
	return renderPage(c, http.StatusUnprocessableEntity, router.ViewReports, page, msg)
}
