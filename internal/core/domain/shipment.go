package domain

import "time"

// ShipmentStatus represents the lifecycle state of a shipment as reported by
// the backend.
type ShipmentStatus string

const (
	StatusShipped   ShipmentStatus = "SHIPPED"
	StatusDelivered ShipmentStatus = "DELIVERED"
)

// Valid reports whether s is one of the statuses the backend knows about.
func (s ShipmentStatus) Valid() bool {
	return s == StatusShipped || s == StatusDelivered
}

// Deliverable reports whether a shipment in status s can still be marked as delivered.
func (s ShipmentStatus) Deliverable() bool {
	return s != StatusDelivered
}

// Date is a calendar day encoded by the backend as "2006-01-02".
type Date struct {
	time.Time
}

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: DateLayout, Value: s, Message: ": date must be a JSON string"}
	}
	t, err := time.Parse(DateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Shipment is a parcel registered by an employee, sent from one client to another.
type Shipment struct {
	ID               int64          `json:"id"`
	Sender           *Client        `json:"sender"`
	Receiver         *Client        `json:"receiver"`
	DeliveryAddress  string         `json:"deliveryAddress"`
	Weight           float64        `json:"weight"`
	ToOffice         bool           `json:"toOffice"`
	Status           ShipmentStatus `json:"status"`
	RegistrationDate Date           `json:"registrationDate"`
	DeliveryDate     Date           `json:"deliveryDate"`
	RegisteredBy     *Employee      `json:"registeredBy,omitempty"`
}

// SenderName returns the sender's name, or an empty string when the link is missing.
func (s Shipment) SenderName() string {
	if s.Sender == nil {
		return ""
	}
	return s.Sender.Name
}

func (s Shipment) ReceiverName() string {
	if s.Receiver == nil {
		return ""
	}
	return s.Receiver.Name
}

func (s Shipment) RegisteredByName() string {
	if s.RegisteredBy == nil {
		return ""
	}
	return s.RegisteredBy.Name
}

// Method describes where the shipment is delivered to.
func (s Shipment) Method() string {
	if s.ToOffice {
		return "to office"
	}
	return "to address"
}

// Ref is the {"id": n} reference the backend accepts for linked records.
type Ref struct {
	ID int64 `json:"id"`
}

// ShipmentRegistration is the body of POST /shipments/register.
type ShipmentRegistration struct {
	Sender          Ref     `json:"sender"`
	Receiver        Ref     `json:"receiver"`
	DeliveryAddress string  `json:"deliveryAddress"`
	Weight          float64 `json:"weight"`
	ToOffice        bool    `json:"toOffice"`
}
