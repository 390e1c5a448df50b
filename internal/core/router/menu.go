// Package router decides which screens an identity may open and dispatches
// a screen to the handler that fetches its data.
package router

import (
	"github.com/99minutos/logistics-console/internal/core/domain"
)

// ViewID names a screen of the console.
type ViewID string

const (
	ViewMyShipments      ViewID = "my-shipments"
	ViewCompanies        ViewID = "companies"
	ViewClients          ViewID = "clients"
	ViewEmployees        ViewID = "employees"
	ViewOffices          ViewID = "offices"
	ViewAllShipments     ViewID = "all-shipments"
	ViewRegisterShipment ViewID = "register-shipment"
	ViewReports          ViewID = "reports"
)

// NavigationAction is one menu entry. It is derived from the identity on
// every call and never stored.
type NavigationAction struct {
	View  ViewID
	Label string
}

var (
	clientMenu = []NavigationAction{
		{View: ViewMyShipments, Label: "My Shipments"},
	}
	employeeMenu = []NavigationAction{
		{View: ViewCompanies, Label: "Companies"},
		{View: ViewClients, Label: "Clients"},
		{View: ViewEmployees, Label: "Employees"},
		{View: ViewOffices, Label: "Offices"},
		{View: ViewAllShipments, Label: "All Shipments"},
		{View: ViewRegisterShipment, Label: "Register Shipment"},
		{View: ViewReports, Label: "Reports"},
	}
)

// BuildMenu returns the screens available to id, in display order. A nil
// identity has no menu.
func BuildMenu(id domain.Identity) []NavigationAction {
	var menu []NavigationAction
	switch id.(type) {
	case domain.ClientIdentity:
		menu = clientMenu
	case domain.EmployeeIdentity:
		menu = employeeMenu
	default:
		return nil
	}
	return append([]NavigationAction(nil), menu...)
}

// Allowed reports whether view is in id's menu.
func Allowed(id domain.Identity, view ViewID) bool {
	for _, a := range BuildMenu(id) {
		if a.View == view {
			return true
		}
	}
	return false
}

// DefaultView is the first menu entry, shown right after login.
func DefaultView(id domain.Identity) (ViewID, bool) {
	menu := BuildMenu(id)
	if len(menu) == 0 {
		return "", false
	}
	return menu[0].View, true
}
