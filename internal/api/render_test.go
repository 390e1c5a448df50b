package api

import (
	"bytes"
	"strings"
	"testing"

	"github.com/99minutos/logistics-console/internal/api/handler"
	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/router"
)

func renderShipments(t *testing.T, deliverable bool, shipments ...domain.Shipment) string {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	var buf bytes.Buffer
	err = r.Render(&buf, "shipments", handler.ViewData{
		Identity: domain.EmployeeIdentity{Username: "ivan"},
		Active:   router.ViewAllShipments,
		Page:     router.ShipmentsPage{Title: "All shipments", Shipments: shipments, Deliverable: deliverable},
		CSRF:     "tok",
	}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestRenderer_ShipmentDeleteIsConfirmed(t *testing.T) {
	html := renderShipments(t, true,
		domain.Shipment{ID: 7, Status: domain.StatusShipped},
		domain.Shipment{ID: 8, Status: domain.StatusDelivered},
	)

	for _, id := range []string{"7", "8"} {
		form := `action="/shipments/` + id + `/delete"`
		i := strings.Index(html, form)
		if i < 0 {
			t.Fatalf("no delete form for shipment %s", id)
		}
		tag := html[i : i+strings.Index(html[i:], ">")]
		if !strings.Contains(tag, "confirm(") || !strings.Contains(tag, "Delete shipment #"+id) {
			t.Errorf("delete of shipment %s is not confirmed: %s", id, tag)
		}
	}
	if strings.Count(html, `name="_csrf" value="tok"`) < 4 {
		t.Error("shipment forms must carry the CSRF token")
	}
	if strings.Contains(html, `action="/shipments/8/deliver"`) {
		t.Error("delivered shipment offered for delivery again")
	}
}

func TestRenderer_ClientShipmentsHaveNoActions(t *testing.T) {
	html := renderShipments(t, false, domain.Shipment{ID: 7, Status: domain.StatusShipped})

	if strings.Contains(html, "/shipments/7/delete") || strings.Contains(html, "/shipments/7/deliver") {
		t.Error("read-only shipment list offers actions")
	}
}
