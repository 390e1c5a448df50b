package domain

// Company is the logistics company record.
type Company struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Client is a customer that sends or receives shipments.
type Client struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Office is a branch where employees work and shipments can be collected.
type Office struct {
	ID      int64  `json:"id,omitempty"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Label is the human form used in tables: "City, Address".
func (o Office) Label() string {
	if o.City == "" {
		return o.Address
	}
	if o.Address == "" {
		return o.City
	}
	return o.City + ", " + o.Address
}

// EmployeeRole is the job an employee performs.
type EmployeeRole string

const (
	RoleCourier     EmployeeRole = "COURIER"
	RoleOfficeStaff EmployeeRole = "OFFICE_STAFF"
)

// EmployeeRoles lists the roles in the order forms present them.
var EmployeeRoles = []EmployeeRole{RoleCourier, RoleOfficeStaff}

// Employee works in an office and may register shipments.
type Employee struct {
	ID     int64        `json:"id,omitempty"`
	Name   string       `json:"name"`
	Office *Office      `json:"office"`
	Role   EmployeeRole `json:"role"`
}

// OfficeLabel returns the office label, or an empty string when the employee has none.
func (e Employee) OfficeLabel() string {
	if e.Office == nil {
		return ""
	}
	return e.Office.Label()
}

// OfficeID returns the linked office id, or zero.
func (e Employee) OfficeID() int64 {
	if e.Office == nil {
		return 0
	}
	return e.Office.ID
}
