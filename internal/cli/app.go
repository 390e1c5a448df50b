// Package cli is the terminal front end of the console. It drives the same
// session gate, view router and services as the web console.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/router"
)

// Deps are the collaborators the REPL is built from.
type Deps struct {
	Auth      ports.AuthService
	Router    *router.Router
	Companies ports.CompanyService
	Clients   ports.ClientService
	Employees ports.EmployeeService
	Offices   ports.OfficeService
	Shipments ports.ShipmentService
	Reports   ports.ReportService
	Logger    zerolog.Logger
}

// App is one interactive terminal session.
type App struct {
	Deps

	in  *bufio.Reader
	out io.Writer
	// fd is the terminal passwords are read from without echo; -1 reads
	// them as plain lines from in.
	fd int

	entities map[string]entityCommand

	mu         sync.Mutex
	last       domain.Session
	loggingOut bool
	notice     string
}

// New returns an App reading commands from in and writing to out. When in is
// a terminal, passwords are read without echo.
func New(d Deps, in io.Reader, out io.Writer) *App {
	fd := -1
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}

	a := &App{
		Deps: d,
		in:   bufio.NewReader(in),
		out:  out,
		fd:   fd,
		last: d.Auth.Session(),
	}
	a.entities = map[string]entityCommand{
		"company":  companyCommand(d.Companies),
		"client":   clientCommand(d.Clients),
		"office":   officeCommand(d.Offices),
		"employee": employeeCommand(d.Employees, d.Offices),
	}
	return a
}

// SessionChanged is registered with the gate. A session that ends without a
// logout command was rejected by the backend; the user is told before the
// next prompt.
func (a *App) SessionChanged(s domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last.Authenticated() && !s.Authenticated() && !a.loggingOut {
		a.notice = "Your session has ended. Log in again."
	}
	a.last = s
}

func (a *App) takeNotice() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.notice
	a.notice = ""
	return n
}

// status is the prompt label: "anonymous" or "alice (EMPLOYEE)".
func (a *App) status() string {
	s := a.Auth.Session()
	if !s.Authenticated() {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", s.Identity.Name(), s.Identity.Type())
}

// identity returns the authenticated identity or domain.ErrNotAuthenticated.
func (a *App) identity() (domain.Identity, error) {
	s := a.Auth.Session()
	if !s.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.Identity, nil
}

// require returns the identity if it may open view.
func (a *App) require(view router.ViewID) (domain.Identity, error) {
	id, err := a.identity()
	if err != nil {
		return nil, err
	}
	if !router.Allowed(id, view) {
		return nil, fmt.Errorf("%w: %s", domain.ErrViewNotAllowed, view)
	}
	return id, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
