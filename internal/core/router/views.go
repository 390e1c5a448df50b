package router

import (
	"context"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

// Services are the view handlers' data sources.
type Services struct {
	Companies ports.CompanyService
	Clients   ports.ClientService
	Employees ports.EmployeeService
	Offices   ports.OfficeService
	Shipments ports.ShipmentService
}

// Views wires every ViewID to the handler that loads it.
func Views(s Services) map[ViewID]ViewHandler {
	return map[ViewID]ViewHandler{
		ViewMyShipments: func(ctx context.Context, id domain.Identity) (Page, error) {
			list, err := s.Shipments.Mine(ctx, id)
			if err != nil {
				return nil, err
			}
			return ShipmentsPage{Title: "My Shipments", Shipments: list}, nil
		},
		ViewCompanies: func(ctx context.Context, _ domain.Identity) (Page, error) {
			list, err := s.Companies.List(ctx)
			if err != nil {
				return nil, err
			}
			return CompaniesPage{Companies: list}, nil
		},
		ViewClients: func(ctx context.Context, _ domain.Identity) (Page, error) {
			list, err := s.Clients.List(ctx)
			if err != nil {
				return nil, err
			}
			return ClientsPage{Clients: list}, nil
		},
		ViewEmployees: func(ctx context.Context, _ domain.Identity) (Page, error) {
			list, err := s.Employees.List(ctx)
			if err != nil {
				return nil, err
			}
			return EmployeesPage{Employees: list}, nil
		},
		ViewOffices: func(ctx context.Context, _ domain.Identity) (Page, error) {
			list, err := s.Offices.List(ctx)
			if err != nil {
				return nil, err
			}
			return OfficesPage{Offices: list}, nil
		},
		ViewAllShipments: func(ctx context.Context, _ domain.Identity) (Page, error) {
			list, err := s.Shipments.All(ctx)
			if err != nil {
				return nil, err
			}
			return ShipmentsPage{Title: "All Shipments", Shipments: list, Deliverable: true}, nil
		},
		ViewRegisterShipment: func(ctx context.Context, _ domain.Identity) (Page, error) {
			clients, err := s.Clients.List(ctx)
			if err != nil {
				return nil, err
			}
			return RegisterShipmentPage{Clients: clients}, nil
		},
		ViewReports: func(ctx context.Context, _ domain.Identity) (Page, error) {
			clients, err := s.Clients.List(ctx)
			if err != nil {
				return nil, err
			}
			employees, err := s.Employees.List(ctx)
			if err != nil {
				return nil, err
			}
			return ReportsPage{Clients: clients, Employees: employees}, nil
		},
	}
}
