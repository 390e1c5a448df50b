package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// UserType is the account kind reported by the backend.
type UserType string

const (
	UserTypeClient   UserType = "CLIENT"
	UserTypeEmployee UserType = "EMPLOYEE"
)

// ParseUserType accepts the wire form case-insensitively.
func ParseUserType(s string) (UserType, bool) {
	switch UserType(strings.ToUpper(strings.TrimSpace(s))) {
	case UserTypeClient:
		return UserTypeClient, true
	case UserTypeEmployee:
		return UserTypeEmployee, true
	}
	return "", false
}

// Identity is the authenticated user. It is either a ClientIdentity or an
// EmployeeIdentity; the unexported method keeps the set closed.
type Identity interface {
	Name() string
	Type() UserType
	identity()
}

// ClientIdentity is a user linked to a client record. Client is nil when the
// account was registered without a link.
type ClientIdentity struct {
	Username string
	Client   *Client
}

func (c ClientIdentity) Name() string   { return c.Username }
func (c ClientIdentity) Type() UserType { return UserTypeClient }
func (ClientIdentity) identity()        {}

// ClientID returns the linked client id and whether a link exists.
func (c ClientIdentity) ClientID() (int64, bool) {
	if c.Client == nil || c.Client.ID == 0 {
		return 0, false
	}
	return c.Client.ID, true
}

// EmployeeIdentity is a user linked to an employee record. Employee is nil
// when the account was registered without a link.
type EmployeeIdentity struct {
	Username string
	Employee *Employee
}

func (e EmployeeIdentity) Name() string   { return e.Username }
func (e EmployeeIdentity) Type() UserType { return UserTypeEmployee }
func (EmployeeIdentity) identity()        {}

// identityWire is the /auth/me body.
type identityWire struct {
	Username string    `json:"username"`
	UserType string    `json:"userType"`
	Client   *Client   `json:"client"`
	Employee *Employee `json:"employee"`
}

// DecodeIdentity converts the introspection body into an Identity variant.
func DecodeIdentity(body []byte) (Identity, error) {
	var w identityWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	if strings.TrimSpace(w.Username) == "" {
		return nil, fmt.Errorf("%w: missing username", ErrMalformedIdentity)
	}

	ut, ok := ParseUserType(w.UserType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown user type %q", ErrMalformedIdentity, w.UserType)
	}

	switch ut {
	case UserTypeClient:
		return ClientIdentity{Username: w.Username, Client: w.Client}, nil
	case UserTypeEmployee:
		return EmployeeIdentity{Username: w.Username, Employee: w.Employee}, nil
	}
	return nil, fmt.Errorf("%w: unknown user type %q", ErrMalformedIdentity, w.UserType)
}

// Credential is the opaque authorization value attached to protected calls.
// The zero value is "no credential".
type Credential struct {
	header string
}

// NewBasicCredential builds an HTTP Basic credential from username and password.
func NewBasicCredential(username, password string) Credential {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Credential{header: "Basic " + token}
}

// Header returns the Authorization header value.
func (c Credential) Header() string { return c.header }

// IsZero reports whether c holds no credential.
func (c Credential) IsZero() bool { return c.header == "" }

// String never reveals the credential.
func (c Credential) String() string {
	if c.IsZero() {
		return "<none>"
	}
	return "<redacted>"
}

// SessionState is the authentication state of the console.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session is a read-only view of the credential store. It never carries the
// credential itself.
type Session struct {
	State    SessionState
	Identity Identity
	Epoch    uint64
}

// Authenticated reports whether s has a live identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}
