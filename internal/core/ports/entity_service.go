package ports

import (
	"context"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// CompanyInput is the company form.
type CompanyInput struct {
	Name    string `validate:"required"`
	Address string `validate:"required"`
	Phone   string
}

// ClientInput is the client form.
type ClientInput struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required"`
}

// OfficeInput is the office form.
type OfficeInput struct {
	City    string `validate:"required"`
	Address string `validate:"required"`
}

// EmployeeInput is the employee form.
type EmployeeInput struct {
	Name     string `validate:"required"`
	OfficeID int64  `validate:"required,gt=0"`
	Role     string `validate:"required,oneof=COURIER OFFICE_STAFF"`
}

// CRUDService is the list/get/create/update/delete cycle shared by the
// company, client, office and employee screens.
type CRUDService[T any, I any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id int64, in I) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type (
	CompanyService  = CRUDService[domain.Company, CompanyInput]
	ClientService   = CRUDService[domain.Client, ClientInput]
	OfficeService   = CRUDService[domain.Office, OfficeInput]
	EmployeeService = CRUDService[domain.Employee, EmployeeInput]
)
