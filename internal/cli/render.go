package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/99minutos/logistics-console/internal/core/router"
)

// renderPage prints p as a heading and an aligned table.
func (a *App) renderPage(p router.Page) {
	a.println()
	a.println(p.Heading())
	a.println(strings.Repeat("=", len(p.Heading())))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	row := func(cols ...any) {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = fmt.Sprint(c)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}

	switch p := p.(type) {
	case router.CompaniesPage:
		row("ID", "NAME", "ADDRESS", "PHONE")
		for _, c := range p.Companies {
			row(c.ID, c.Name, c.Address, c.Phone)
		}
		empty(tw, len(p.Companies))

	case router.ClientsPage:
		row("ID", "NAME", "EMAIL", "PHONE")
		for _, c := range p.Clients {
			row(c.ID, c.Name, c.Email, c.PhoneNumber)
		}
		empty(tw, len(p.Clients))

	case router.OfficesPage:
		row("ID", "CITY", "ADDRESS")
		for _, o := range p.Offices {
			row(o.ID, o.City, o.Address)
		}
		empty(tw, len(p.Offices))

	case router.EmployeesPage:
		row("ID", "NAME", "OFFICE", "ROLE")
		for _, e := range p.Employees {
			row(e.ID, e.Name, e.OfficeLabel(), e.Role)
		}
		empty(tw, len(p.Employees))

	case router.ShipmentsPage:
		row("ID", "SENDER", "RECEIVER", "ADDRESS", "WEIGHT", "METHOD", "STATUS", "REGISTERED", "DELIVERED")
		for _, s := range p.Shipments {
			row(s.ID, s.SenderName(), s.ReceiverName(), s.DeliveryAddress,
				fmt.Sprintf("%.2f", s.Weight), s.Method(), s.Status,
				s.RegistrationDate, s.DeliveryDate)
		}
		empty(tw, len(p.Shipments))
		if p.Deliverable && len(p.Shipments) > 0 {
			defer a.println("Use 'deliver <id>' to mark a shipment as delivered.")
		}

	case router.RegisterShipmentPage:
		row("CLIENT ID", "NAME")
		for _, c := range p.Clients {
			row(c.ID, c.Name)
		}
		empty(tw, len(p.Clients))

	case router.ReportsPage:
		fmt.Fprintln(tw, "report not-delivered\tshipments still on their way")
		fmt.Fprintln(tw, "report status <SHIPPED|DELIVERED>\tshipments in a status")
		fmt.Fprintln(tw, "report employee <id>\tshipments registered by an employee")
		fmt.Fprintln(tw, "report sent <client id>\tshipments sent by a client")
		fmt.Fprintln(tw, "report received <client id>\tshipments received by a client")
		fmt.Fprintln(tw, "report revenue <YYYY-MM-DD> <YYYY-MM-DD>\tincome of delivered shipments")
		fmt.Fprintln(tw)
		row("CLIENT ID", "NAME")
		for _, c := range p.Clients {
			row(c.ID, c.Name)
		}
		fmt.Fprintln(tw)
		row("EMPLOYEE ID", "NAME")
		for _, e := range p.Employees {
			row(e.ID, e.Name)
		}

	case router.RevenuePage:
		row("FROM", p.Revenue.Start)
		row("TO", p.Revenue.End)
		row("TOTAL", p.Revenue.Formatted())

	default:
		fmt.Fprintf(tw, "%+v\n", p)
	}
	_ = tw.Flush()
}

func empty(tw *tabwriter.Writer, n int) {
	if n == 0 {
		fmt.Fprintln(tw, "(none)")
	}
}
