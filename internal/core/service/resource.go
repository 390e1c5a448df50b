package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
)

// resource is the CRUD cycle over one backend collection. T is the entity
// the backend returns and I is the form that creates or updates it.
type resource[T any, I any] struct {
	gw       ports.Gateway
	validate *validation.Validator
	logger   zerolog.Logger

	name string // singular, used in logs and errors
	path string

	clean  func(I) I
	toBody func(I) any
}

func (r *resource[T, I]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.gw.Do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resource[T, I]) Get(ctx context.Context, id int64) (*T, error) {
	if err := requireID(r.name, id); err != nil {
		return nil, err
	}
	var out T
	if err := r.gw.Do(ctx, http.MethodGet, r.itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resource[T, I]) Create(ctx context.Context, in I) (*T, error) {
	in = r.clean(in)
	if err := r.validate.Validate(in); err != nil {
		return nil, err
	}
	var out T
	if err := r.gw.Do(ctx, http.MethodPost, r.path, r.toBody(in), &out); err != nil {
		r.logger.Error().Err(err).Str("resource", r.name).Msg("create failed")
		return nil, err
	}
	r.logger.Info().Str("resource", r.name).Msg("created")
	return &out, nil
}

func (r *resource[T, I]) Update(ctx context.Context, id int64, in I) (*T, error) {
	if err := requireID(r.name, id); err != nil {
		return nil, err
	}
	in = r.clean(in)
	if err := r.validate.Validate(in); err != nil {
		return nil, err
	}
	var out T
	if err := r.gw.Do(ctx, http.MethodPut, r.itemPath(id), r.toBody(in), &out); err != nil {
		r.logger.Error().Err(err).Str("resource", r.name).Int64("id", id).Msg("update failed")
		return nil, err
	}
	r.logger.Info().Str("resource", r.name).Int64("id", id).Msg("updated")
	return &out, nil
}

func (r *resource[T, I]) Delete(ctx context.Context, id int64) error {
	if err := requireID(r.name, id); err != nil {
		return err
	}
	if err := r.gw.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		r.logger.Error().Err(err).Str("resource", r.name).Int64("id", id).Msg("delete failed")
		return err
	}
	r.logger.Info().Str("resource", r.name).Int64("id", id).Msg("deleted")
	return nil
}

func (r *resource[T, I]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return domain.NewValidationError(field+"Id", "must be a positive number")
	}
	return nil
}

// parseID converts a user-typed id. Empty, non-numeric and non-positive
// values are rejected before any request is made.
func parseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError(field, "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(field, fmt.Sprintf("%q is not a valid id", raw))
	}
	return id, nil
}

// NewCompanyService returns the company CRUD service.
func NewCompanyService(gw ports.Gateway, v *validation.Validator, logger zerolog.Logger) ports.CompanyService {
	return &resource[domain.Company, ports.CompanyInput]{
		gw: gw, validate: v, logger: logger,
		name: "company", path: "/companies",
		clean: func(in ports.CompanyInput) ports.CompanyInput {
			in.Name = strings.TrimSpace(in.Name)
			in.Address = strings.TrimSpace(in.Address)
			in.Phone = strings.TrimSpace(in.Phone)
			return in
		},
		toBody: func(in ports.CompanyInput) any {
			return domain.Company{Name: in.Name, Address: in.Address, Phone: in.Phone}
		},
	}
}

// NewClientService returns the client CRUD service.
func NewClientService(gw ports.Gateway, v *validation.Validator, logger zerolog.Logger) ports.ClientService {
	return &resource[domain.Client, ports.ClientInput]{
		gw: gw, validate: v, logger: logger,
		name: "client", path: "/clients",
		clean: func(in ports.ClientInput) ports.ClientInput {
			in.Name = strings.TrimSpace(in.Name)
			in.Email = strings.TrimSpace(in.Email)
			in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
			return in
		},
		toBody: func(in ports.ClientInput) any {
			return domain.Client{Name: in.Name, Email: in.Email, PhoneNumber: in.PhoneNumber}
		},
	}
}

// NewOfficeService returns the office CRUD service.
func NewOfficeService(gw ports.Gateway, v *validation.Validator, logger zerolog.Logger) ports.OfficeService {
	return &resource[domain.Office, ports.OfficeInput]{
		gw: gw, validate: v, logger: logger,
		name: "office", path: "/offices",
		clean: func(in ports.OfficeInput) ports.OfficeInput {
			in.City = strings.TrimSpace(in.City)
			in.Address = strings.TrimSpace(in.Address)
			return in
		},
		toBody: func(in ports.OfficeInput) any {
			return domain.Office{City: in.City, Address: in.Address}
		},
	}
}

// employeeBody references the office by id only.
type employeeBody struct {
	Name   string     `json:"name"`
	Office domain.Ref `json:"office"`
	Role   string     `json:"role"`
}

// NewEmployeeService returns the employee CRUD service.
func NewEmployeeService(gw ports.Gateway, v *validation.Validator, logger zerolog.Logger) ports.EmployeeService {
	return &resource[domain.Employee, ports.EmployeeInput]{
		gw: gw, validate: v, logger: logger,
		name: "employee", path: "/employees",
		clean: func(in ports.EmployeeInput) ports.EmployeeInput {
			in.Name = strings.TrimSpace(in.Name)
			in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
			return in
		},
		toBody: func(in ports.EmployeeInput) any {
			return employeeBody{Name: in.Name, Office: domain.Ref{ID: in.OfficeID}, Role: in.Role}
		},
	}
}
