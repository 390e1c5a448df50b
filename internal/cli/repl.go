package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/router"
)

const (
	helpAnonymous = `Commands:
  register            create an account
  login               log in
  help                show this help
  exit | quit         leave`

	helpClient = `Commands:
  menu                list your screens
  open <n>            open the n-th screen
  shipments           list your shipments
  logout              log out
  help                show this help
  exit | quit         leave`

	helpEmployee = `Commands:
  menu                                   list your screens
  open <n>                               open the n-th screen
  companies | clients | offices | employees
  company|client|office|employee add | edit <id> | delete <id>
  shipments                              list all shipments
  ship                                   register a shipment
  deliver <id>                           mark a shipment as delivered
  shipment delete <id>                   delete a shipment
  report [not-delivered | status <s> | employee <id> | sent <id> | received <id> | revenue <from> <to>]
  logout                                 log out
  help                                   show this help
  exit | quit                            leave`
)

// Run reads commands until exit, quit, end of input or ctx is done. Command
// errors are printed and the loop goes on.
func (a *App) Run(ctx context.Context) error {
	a.println("Logistics console (type 'help' for commands)")
	for {
		if n := a.takeNotice(); n != "" {
			a.println(n)
		}
		a.printf("console (%s)> ", a.status())

		line, err := a.readLine()
		if errors.Is(err, io.EOF) {
			a.println()
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			a.println("Bye!")
			return nil
		}
		if err := a.exec(ctx, args); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			a.println(a.describe(err))
		}
	}
}

func (a *App) exec(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	if ec, ok := a.entities[cmd]; ok {
		return ec.run(ctx, a, rest)
	}

	switch cmd {
	case "help":
		a.help()
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout()
	case "menu":
		return a.menu()
	case "open":
		return a.openArg(ctx, rest)
	case "companies":
		return a.open(ctx, router.ViewCompanies)
	case "clients":
		return a.open(ctx, router.ViewClients)
	case "offices":
		return a.open(ctx, router.ViewOffices)
	case "employees":
		return a.open(ctx, router.ViewEmployees)
	case "shipments":
		return a.shipments(ctx)
	case "shipment":
		return a.shipment(ctx, rest)
	case "ship":
		return a.ship(ctx)
	case "deliver":
		return a.deliver(ctx, rest)
	case "report":
		return a.report(ctx, rest)
	}
	return fmt.Errorf("unknown command %q, type 'help'", cmd)
}

func (a *App) help() {
	switch a.Auth.Session().Identity.(type) {
	case domain.EmployeeIdentity:
		a.println(helpEmployee)
	case domain.ClientIdentity:
		a.println(helpClient)
	default:
		a.println(helpAnonymous)
	}
}

func (a *App) menu() error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	for i, action := range router.BuildMenu(id) {
		a.printf("%d. %s\n", i+1, action.Label)
	}
	return nil
}

// openArg opens a screen by menu position or by view id.
func (a *App) openArg(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("open <n>")
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	menu := router.BuildMenu(id)
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(menu) {
			return fmt.Errorf("no menu entry %d, type 'menu'", n)
		}
		return a.open(ctx, menu[n-1].View)
	}
	return a.open(ctx, router.ViewID(args[0]))
}

// open dispatches view through the router and prints the page.
func (a *App) open(ctx context.Context, view router.ViewID) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	page, err := a.Router.Dispatch(ctx, id, view)
	if err != nil {
		return err
	}
	a.renderPage(page)
	return nil
}

// describe turns a command error into the line shown to the user.
func (a *App) describe(err error) string {
	var (
		ve  *domain.ValidationError
		ae  *domain.AuthenticationError
		re  *domain.RegistrationError
		ge  *domain.GatewayError
		use usageError
	)
	switch {
	case errors.As(err, &use):
		return err.Error()
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &re):
		return "Registration failed: " + re.Message
	case errors.Is(err, domain.ErrStaleSession):
		return "The session changed while the command ran; its result was discarded."
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Log in first."
	case errors.Is(err, domain.ErrViewNotAllowed):
		return "Not available for your account."
	case errors.As(err, &ge):
		if ge.Unauthorized() {
			return "The server rejected your credentials. Log in again."
		}
		return "Server error: " + ge.Error()
	}
	a.Logger.Error().Err(err).Msg("command failed")
	return "Error: " + err.Error()
}
