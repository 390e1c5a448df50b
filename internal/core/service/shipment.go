package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
)

const shipmentsPath = "/shipments"

type ShipmentService struct {
	gw       ports.Gateway
	validate *validation.Validator
	logger   zerolog.Logger
}

func NewShipmentService(gw ports.Gateway, v *validation.Validator, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{gw: gw, validate: v, logger: logger}
}

func (s *ShipmentService) All(ctx context.Context) ([]domain.Shipment, error) {
	return s.list(ctx, shipmentsPath+"/all")
}

func (s *ShipmentService) NotDelivered(ctx context.Context) ([]domain.Shipment, error) {
	return s.list(ctx, shipmentsPath+"/not-delivered")
}

// ByStatus accepts the status in any case.
func (s *ShipmentService) ByStatus(ctx context.Context, status string) ([]domain.Shipment, error) {
	st := domain.ShipmentStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, domain.NewValidationError("status", "must be SHIPPED or DELIVERED")
	}
	return s.list(ctx, shipmentsPath+"/status/"+string(st))
}

func (s *ShipmentService) RegisteredByEmployee(ctx context.Context, employeeID string) ([]domain.Shipment, error) {
	id, err := parseID("employeeId", employeeID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, shipmentsPath+"/employee/"+strconv.FormatInt(id, 10))
}

func (s *ShipmentService) SentByClient(ctx context.Context, clientID string) ([]domain.Shipment, error) {
	id, err := parseID("clientId", clientID)
	if err != nil {
		return nil, err
	}
	return s.sent(ctx, id)
}

func (s *ShipmentService) ReceivedByClient(ctx context.Context, clientID string) ([]domain.Shipment, error) {
	id, err := parseID("clientId", clientID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, shipmentsPath+"/client/"+strconv.FormatInt(id, 10)+"/received")
}

// Mine lists what the identity is entitled to see as "my shipments": the
// shipments a linked client sent, or every shipment for an employee.
func (s *ShipmentService) Mine(ctx context.Context, id domain.Identity) ([]domain.Shipment, error) {
	switch v := id.(type) {
	case domain.ClientIdentity:
		clientID, ok := v.ClientID()
		if !ok {
			return nil, domain.NewValidationError("client", domain.ErrNotLinked.Error())
		}
		return s.sent(ctx, clientID)
	case domain.EmployeeIdentity:
		return s.All(ctx)
	default:
		return nil, domain.ErrNotAuthenticated
	}
}

func (s *ShipmentService) Get(ctx context.Context, id int64) (*domain.Shipment, error) {
	if err := requireID("shipment", id); err != nil {
		return nil, err
	}
	var out domain.Shipment
	if err := s.gw.Do(ctx, http.MethodGet, shipmentPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register records a new shipment. The backend stamps the registering
// employee, the SHIPPED status and the registration date.
func (s *ShipmentService) Register(ctx context.Context, in ports.RegisterShipmentInput) (*domain.Shipment, error) {
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	body := domain.ShipmentRegistration{
		Sender:          domain.Ref{ID: in.SenderID},
		Receiver:        domain.Ref{ID: in.ReceiverID},
		DeliveryAddress: in.DeliveryAddress,
		Weight:          in.Weight,
		ToOffice:        in.ToOffice,
	}
	var out domain.Shipment
	if err := s.gw.Do(ctx, http.MethodPost, shipmentsPath+"/register", body, &out); err != nil {
		s.logger.Error().Err(err).Int64("sender_id", in.SenderID).Msg("failed to register shipment")
		return nil, err
	}

	s.logger.Info().Int64("shipment_id", out.ID).Int64("sender_id", in.SenderID).Int64("receiver_id", in.ReceiverID).Msg("shipment registered")
	return &out, nil
}

// Deliver marks a shipment as delivered.
func (s *ShipmentService) Deliver(ctx context.Context, id int64) (*domain.Shipment, error) {
	if err := requireID("shipment", id); err != nil {
		return nil, err
	}
	var out domain.Shipment
	if err := s.gw.Do(ctx, http.MethodPut, shipmentPath(id)+"/deliver", nil, &out); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to deliver shipment")
		return nil, err
	}
	s.logger.Info().Int64("shipment_id", id).Msg("shipment delivered")
	return &out, nil
}

func (s *ShipmentService) Delete(ctx context.Context, id int64) error {
	if err := requireID("shipment", id); err != nil {
		return err
	}
	if err := s.gw.Do(ctx, http.MethodDelete, shipmentPath(id), nil, nil); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to delete shipment")
		return err
	}
	s.logger.Info().Int64("shipment_id", id).Msg("shipment deleted")
	return nil
}

func (s *ShipmentService) sent(ctx context.Context, clientID int64) ([]domain.Shipment, error) {
	return s.list(ctx, shipmentsPath+"/client/"+strconv.FormatInt(clientID, 10)+"/sent")
}

func (s *ShipmentService) list(ctx context.Context, path string) ([]domain.Shipment, error) {
	var out []domain.Shipment
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func shipmentPath(id int64) string {
	return shipmentsPath + "/" + strconv.FormatInt(id, 10)
}

var _ ports.ShipmentService = (*ShipmentService)(nil)
