package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// FormPage is the create/edit form of one entity.
type FormPage struct {
	Title  string
	Action string
	Input  any
	// Offices and Roles feed the employee form selects.
	Offices []domain.Office
	Roles   []domain.EmployeeRole
}

// EntityForms serves the create, edit and delete routes of one collection.
// T is the entity, I the form input the service validates.
type EntityForms[T any, I any] struct {
	svc      ports.CRUDService[T, I]
	singular string
	plural   string
	view     router.ViewID

	bind    func(c echo.Context) (I, error)
	toInput func(T) I
	// prepare fills select options; nil when the form has none.
	prepare func(ctx context.Context, p *FormPage) error
}

// Base is the path prefix, e.g. "/companies".
func (f *EntityForms[T, I]) Base() string { return "/" + f.plural }

func (f *EntityForms[T, I]) template() string { return f.singular + "_form" }

// New renders the empty form.
func (f *EntityForms[T, I]) New(c echo.Context) error {
	var in I
	return f.form(c, http.StatusOK, "New "+f.singular, f.Base(), in, "")
}

// Create handles POST /{plural}.
func (f *EntityForms[T, I]) Create(c echo.Context) error {
	in, err := f.bind(c)
	if err != nil {
		return err
	}
	if _, err := f.svc.Create(c.Request().Context(), in); err != nil {
		if msg, ok := validationMessage(err); ok {
			return f.form(c, http.StatusUnprocessableEntity, "New "+f.singular, f.Base(), in, msg)
		}
		return err
	}
	return redirect(c, "/views/"+string(f.view)+"?msg=saved")
}

// Edit renders the form filled with the stored record.
func (f *EntityForms[T, I]) Edit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := f.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return f.form(c, http.StatusOK, "Edit "+f.singular, f.itemPath(id), f.toInput(*rec), "")
}

// Update handles POST /{plural}/:id.
func (f *EntityForms[T, I]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := f.bind(c)
	if err != nil {
		return err
	}
	if _, err := f.svc.Update(c.Request().Context(), id, in); err != nil {
		if msg, ok := validationMessage(err); ok {
			return f.form(c, http.StatusUnprocessableEntity, "Edit "+f.singular, f.itemPath(id), in, msg)
		}
		return err
	}
	return redirect(c, "/views/"+string(f.view)+"?msg=saved")
}

// Delete handles POST /{plural}/:id/delete. The page asks for confirmation
// before submitting.
func (f *EntityForms[T, I]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := f.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return redirect(c, "/views/"+string(f.view)+"?msg=deleted")
}

func (f *EntityForms[T, I]) itemPath(id int64) string {
	return f.Base() + "/" + strconv.FormatInt(id, 10)
}

func (f *EntityForms[T, I]) form(c echo.Context, status int, title, action string, in I, errMsg string) error {
	page := FormPage{Title: title, Action: action, Input: in}
	if f.prepare != nil {
		if err := f.prepare(c.Request().Context(), &page); err != nil {
			return err
		}
	}
	return render(c, status, f.template(), f.view, page, errMsg)
}

// --- Form requests ---

type companyRequest struct {
	Name    string `form:"name"`
	Address string `form:"address"`
	Phone   string `form:"phone"`
}

type clientRequest struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phoneNumber"`
}

type officeRequest struct {
	City    string `form:"city"`
	Address string `form:"address"`
}

type employeeRequest struct {
	Name     string `form:"name"`
	OfficeID string `form:"officeId"`
	Role     string `form:"role"`
}

func bindForm[R any, I any](conv func(R) I) func(c echo.Context) (I, error) {
	return func(c echo.Context) (I, error) {
		var req R
		if err := c.Bind(&req); err != nil {
			var zero I
			return zero, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		return conv(req), nil
	}
}

// formInt parses a numeric form field; anything unparsable becomes zero and
// is reported by validation.
func formInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func NewCompanyForms(svc ports.CompanyService) *EntityForms[domain.Company, ports.CompanyInput] {
	return &EntityForms[domain.Company, ports.CompanyInput]{
		svc: svc, singular: "company", plural: "companies", view: router.ViewCompanies,
		bind: bindForm(func(r companyRequest) ports.CompanyInput {
			return ports.CompanyInput{Name: r.Name, Address: r.Address, Phone: r.Phone}
		}),
		toInput: func(c domain.Company) ports.CompanyInput {
			return ports.CompanyInput{Name: c.Name, Address: c.Address, Phone: c.Phone}
		},
	}
}

func NewClientForms(svc ports.ClientService) *EntityForms[domain.Client, ports.ClientInput] {
	return &EntityForms[domain.Client, ports.ClientInput]{
		svc: svc, singular: "client", plural: "clients", view: router.ViewClients,
		bind: bindForm(func(r clientRequest) ports.ClientInput {
			return ports.ClientInput{Name: r.Name, Email: r.Email, PhoneNumber: r.PhoneNumber}
		}),
		toInput: func(c domain.Client) ports.ClientInput {
			return ports.ClientInput{Name: c.Name, Email: c.Email, PhoneNumber: c.PhoneNumber}
		},
	}
}

func NewOfficeForms(svc ports.OfficeService) *EntityForms[domain.Office, ports.OfficeInput] {
	return &EntityForms[domain.Office, ports.OfficeInput]{
		svc: svc, singular: "office", plural: "offices", view: router.ViewOffices,
		bind: bindForm(func(r officeRequest) ports.OfficeInput {
			return ports.OfficeInput{City: r.City, Address: r.Address}
		}),
		toInput: func(o domain.Office) ports.OfficeInput {
			return ports.OfficeInput{City: o.City, Address: o.Address}
		},
	}
}

// NewEmployeeForms needs the offices for the office select.
func NewEmployeeForms(svc ports.EmployeeService, offices ports.OfficeService) *EntityForms[domain.Employee, ports.EmployeeInput] {
	return &EntityForms[domain.Employee, ports.EmployeeInput]{
		svc: svc, singular: "employee", plural: "employees", view: router.ViewEmployees,
		bind: bindForm(func(r employeeRequest) ports.EmployeeInput {
			return ports.EmployeeInput{Name: r.Name, OfficeID: formInt(r.OfficeID), Role: r.Role}
		}),
		toInput: func(e domain.Employee) ports.EmployeeInput {
			return ports.EmployeeInput{Name: e.Name, OfficeID: e.OfficeID(), Role: string(e.Role)}
		},
		prepare: func(ctx context.Context, p *FormPage) error {
			list, err := offices.List(ctx)
			if err != nil {
				return err
			}
			p.Offices = list
			p.Roles = domain.EmployeeRoles
			return nil
		},
	}
}
