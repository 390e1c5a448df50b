package router

import (
	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

// Page is the data of one rendered screen. Front ends pick the presentation
// from Template; the page itself carries no markup.
type Page interface {
	Template() string
	Heading() string
}

type CompaniesPage struct {
	Companies []domain.Company
}

func (CompaniesPage) Template() string { return "companies" }
func (CompaniesPage) Heading() string  { return "Companies" }

type ClientsPage struct {
	Clients []domain.Client
}

func (ClientsPage) Template() string { return "clients" }
func (ClientsPage) Heading() string  { return "Clients" }

type EmployeesPage struct {
	Employees []domain.Employee
}

func (EmployeesPage) Template() string { return "employees" }
func (EmployeesPage) Heading() string  { return "Employees" }

type OfficesPage struct {
	Offices []domain.Office
}

func (OfficesPage) Template() string { return "offices" }
func (OfficesPage) Heading() string  { return "Offices" }

// ShipmentsPage is any shipment table. Deliverable enables the deliver
// action on rows that are not delivered yet.
type ShipmentsPage struct {
	Title       string
	Shipments   []domain.Shipment
	Deliverable bool
}

func (ShipmentsPage) Template() string  { return "shipments" }
func (p ShipmentsPage) Heading() string { return p.Title }

// RegisterShipmentPage offers the known clients as sender and receiver.
type RegisterShipmentPage struct {
	Clients []domain.Client
}

func (RegisterShipmentPage) Template() string { return "register_shipment" }
func (RegisterShipmentPage) Heading() string  { return "Register Shipment" }

// ReportsPage lists the report queries with the ids they can be run for.
type ReportsPage struct {
	Clients   []domain.Client
	Employees []domain.Employee
}

func (ReportsPage) Template() string { return "reports" }
func (ReportsPage) Heading() string  { return "Reports" }

type RevenuePage struct {
	Revenue ports.Revenue
}

func (RevenuePage) Template() string { return "revenue" }
func (RevenuePage) Heading() string  { return "Revenue" }
