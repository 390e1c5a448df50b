package ports

import (
	"context"
	"strconv"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// RegisterShipmentInput carries the shipment registration form.
type RegisterShipmentInput struct {
	SenderID        int64   `validate:"required,gt=0"`
	ReceiverID      int64   `validate:"required,gt=0"`
	DeliveryAddress string  `validate:"required"`
	Weight          float64 `validate:"required,gt=0"`
	ToOffice        bool
}

// ShipmentService lists, registers and delivers shipments.
type ShipmentService interface {
	All(ctx context.Context) ([]domain.Shipment, error)
	NotDelivered(ctx context.Context) ([]domain.Shipment, error)
	ByStatus(ctx context.Context, status string) ([]domain.Shipment, error)
	RegisteredByEmployee(ctx context.Context, employeeID string) ([]domain.Shipment, error)
	SentByClient(ctx context.Context, clientID string) ([]domain.Shipment, error)
	ReceivedByClient(ctx context.Context, clientID string) ([]domain.Shipment, error)
	// Mine lists the shipments the authenticated client has sent.
	Mine(ctx context.Context, id domain.Identity) ([]domain.Shipment, error)
	Get(ctx context.Context, id int64) (*domain.Shipment, error)
	Register(ctx context.Context, in RegisterShipmentInput) (*domain.Shipment, error)
	Deliver(ctx context.Context, id int64) (*domain.Shipment, error)
	Delete(ctx context.Context, id int64) error
}

// Revenue is the income of delivered shipments in [Start, End].
type Revenue struct {
	Start domain.Date
	End   domain.Date
	Total float64
}

// ReportService runs the reporting queries that are not plain shipment lists.
type ReportService interface {
	Revenue(ctx context.Context, start, end string) (*Revenue, error)
}

// Formatted renders the total with two decimal places.
func (r Revenue) Formatted() string {
	return strconv.FormatFloat(r.Total, 'f', 2, 64)
}
