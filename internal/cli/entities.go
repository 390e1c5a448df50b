package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// entityCommand handles "<entity> add|edit <id>|delete <id>".
type entityCommand interface {
	run(ctx context.Context, a *App, args []string) error
}

// crudCommand is the entityCommand of one CRUD screen.
type crudCommand[T, I any] struct {
	singular string
	view     router.ViewID
	svc      ports.CRUDService[T, I]
	// input converts the current record into a form; nil means a new one.
	input  func(*T) I
	fields func(ctx context.Context, a *App, in *I) ([]field, error)
}

func (c *crudCommand[T, I]) run(ctx context.Context, a *App, args []string) error {
	if len(args) == 0 {
		return usageError(c.singular + " add | edit <id> | delete <id>")
	}
	if _, err := a.require(c.view); err != nil {
		return err
	}

	switch args[0] {
	case "add":
		in := c.input(nil)
		if err := c.prompt(ctx, a, &in); err != nil {
			return err
		}
		if _, err := c.svc.Create(ctx, in); err != nil {
			return err
		}
		a.println("Saved.")

	case "edit":
		id, err := idArg(c.singular, args[1:])
		if err != nil {
			return err
		}
		current, err := c.svc.Get(ctx, id)
		if err != nil {
			return err
		}
		in := c.input(current)
		if err := c.prompt(ctx, a, &in); err != nil {
			return err
		}
		if _, err := c.svc.Update(ctx, id, in); err != nil {
			return err
		}
		a.println("Saved.")

	case "delete":
		id, err := idArg(c.singular, args[1:])
		if err != nil {
			return err
		}
		ok, err := a.confirm(fmt.Sprintf("Delete %s %d?", c.singular, id))
		if err != nil {
			return err
		}
		if !ok {
			a.println("Cancelled.")
			return nil
		}
		if err := c.svc.Delete(ctx, id); err != nil {
			return err
		}
		a.println("Deleted.")

	default:
		return usageError(c.singular + " add | edit <id> | delete <id>")
	}

	return a.open(ctx, c.view)
}

func (c *crudCommand[T, I]) prompt(ctx context.Context, a *App, in *I) error {
	fields, err := c.fields(ctx, a, in)
	if err != nil {
		return err
	}
	return a.fill(fields...)
}

func companyCommand(svc ports.CompanyService) entityCommand {
	return &crudCommand[domain.Company, ports.CompanyInput]{
		singular: "company",
		view:     router.ViewCompanies,
		svc:      svc,
		input: func(c *domain.Company) ports.CompanyInput {
			if c == nil {
				return ports.CompanyInput{}
			}
			return ports.CompanyInput{Name: c.Name, Address: c.Address, Phone: c.Phone}
		},
		fields: func(_ context.Context, _ *App, in *ports.CompanyInput) ([]field, error) {
			return []field{
				text("Name", &in.Name),
				text("Address", &in.Address),
				text("Phone", &in.Phone),
			}, nil
		},
	}
}

func clientCommand(svc ports.ClientService) entityCommand {
	return &crudCommand[domain.Client, ports.ClientInput]{
		singular: "client",
		view:     router.ViewClients,
		svc:      svc,
		input: func(c *domain.Client) ports.ClientInput {
			if c == nil {
				return ports.ClientInput{}
			}
			return ports.ClientInput{Name: c.Name, Email: c.Email, PhoneNumber: c.PhoneNumber}
		},
		fields: func(_ context.Context, _ *App, in *ports.ClientInput) ([]field, error) {
			return []field{
				text("Name", &in.Name),
				text("Email", &in.Email),
				text("Phone number", &in.PhoneNumber),
			}, nil
		},
	}
}

func officeCommand(svc ports.OfficeService) entityCommand {
	return &crudCommand[domain.Office, ports.OfficeInput]{
		singular: "office",
		view:     router.ViewOffices,
		svc:      svc,
		input: func(o *domain.Office) ports.OfficeInput {
			if o == nil {
				return ports.OfficeInput{}
			}
			return ports.OfficeInput{City: o.City, Address: o.Address}
		},
		fields: func(_ context.Context, _ *App, in *ports.OfficeInput) ([]field, error) {
			return []field{
				text("City", &in.City),
				text("Address", &in.Address),
			}, nil
		},
	}
}

// employeeCommand lists the offices before asking for the office id.
func employeeCommand(svc ports.EmployeeService, offices ports.OfficeService) entityCommand {
	return &crudCommand[domain.Employee, ports.EmployeeInput]{
		singular: "employee",
		view:     router.ViewEmployees,
		svc:      svc,
		input: func(e *domain.Employee) ports.EmployeeInput {
			if e == nil {
				return ports.EmployeeInput{}
			}
			return ports.EmployeeInput{Name: e.Name, OfficeID: e.OfficeID(), Role: string(e.Role)}
		},
		fields: func(ctx context.Context, a *App, in *ports.EmployeeInput) ([]field, error) {
			list, err := offices.List(ctx)
			if err != nil {
				return nil, err
			}
			a.renderPage(router.OfficesPage{Offices: list})
			roles := make([]string, len(domain.EmployeeRoles))
			for i, r := range domain.EmployeeRoles {
				roles[i] = string(r)
			}
			return []field{
				text("Name", &in.Name),
				number("Office id", &in.OfficeID),
				text("Role ("+strings.Join(roles, "|")+")", &in.Role),
			}, nil
		},
	}
}

func idArg(what string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, usageError(what + " <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(what+"Id", fmt.Sprintf("%q is not a valid id", args[0]))
	}
	return id, nil
}

// parseInt returns zero for anything that is not an integer.
func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }
