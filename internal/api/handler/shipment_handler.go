package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// ShipmentHandler registers, delivers and deletes shipments.
type ShipmentHandler struct {
	shipments ports.ShipmentService
	clients   ports.ClientService
}

func NewShipmentHandler(shipments ports.ShipmentService, clients ports.ClientService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, clients: clients}
}

type registerShipmentRequest struct {
	SenderID        string `form:"senderId"`
	ReceiverID      string `form:"receiverId"`
	DeliveryAddress string `form:"deliveryAddress"`
	Weight          string `form:"weight"`
	ToOffice        string `form:"toOffice"`
}

func toRegisterShipmentInput(req registerShipmentRequest) ports.RegisterShipmentInput {
	weight, err := strconv.ParseFloat(strings.TrimSpace(req.Weight), 64)
	if err != nil {
		weight = 0
	}
	return ports.RegisterShipmentInput{
		SenderID:        formInt(req.SenderID),
		ReceiverID:      formInt(req.ReceiverID),
		DeliveryAddress: req.DeliveryAddress,
		Weight:          weight,
		ToOffice:        req.ToOffice == "on" || req.ToOffice == "true",
	}
}

// Register handles POST /shipments.
func (h *ShipmentHandler) Register(c echo.Context) error {
	var req registerShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	ctx := c.Request().Context()

	if _, err := h.shipments.Register(ctx, toRegisterShipmentInput(req)); err != nil {
		msg, ok := validationMessage(err)
		if !ok {
			return err
		}
		clients, lerr := h.clients.List(ctx)
		if lerr != nil {
			return lerr
		}
		page := router.RegisterShipmentPage{Clients: clients}
		return renderPage(c, http.StatusUnprocessableEntity, router.ViewRegisterShipment, page, msg)
	}
	return redirect(c, "/views/all-shipments?msg=shipped")
}

// Deliver handles POST /shipments/:id/deliver.
func (h *ShipmentHandler) Deliver(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.shipments.Deliver(c.Request().Context(), id); err != nil {
		return err
	}
	return redirect(c, "/views/all-shipments?msg=delivered")
}

// Delete handles POST /shipments/:id/delete.
func (h *ShipmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.shipments.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return redirect(c, "/views/all-shipments?msg=deleted")
}
