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

func (a *App) register(ctx context.Context) error {
	var in ports.RegisterInput
	var err error
	if in.Username, err = a.ask("Username", ""); err != nil {
		return err
	}
	if in.Password, err = a.askPassword("Password"); err != nil {
		return err
	}
	if in.Role, err = a.ask("Account type (CLIENT|EMPLOYEE)", ""); err != nil {
		return err
	}
	if in.LinkID, err = a.ask("Client or employee id (optional)", ""); err != nil {
		return err
	}

	if err := a.Auth.Register(ctx, in); err != nil {
		return err
	}
	a.println("Account created. Type 'login' to log in.")
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, err := a.ask("Username", "")
	if err != nil {
		return err
	}
	password, err := a.askPassword("Password")
	if err != nil {
		return err
	}

	id, err := a.Auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.printf("Welcome, %s (%s).\n", id.Name(), id.Type())
	if err := a.menu(); err != nil {
		return err
	}
	if view, ok := router.DefaultView(id); ok {
		return a.open(ctx, view)
	}
	return nil
}

func (a *App) logout() error {
	a.mu.Lock()
	a.loggingOut = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.loggingOut = false
		a.mu.Unlock()
	}()

	a.Auth.Logout()
	a.println("Logged out.")
	return nil
}

// shipments opens the shipment list of the caller's role.
func (a *App) shipments(ctx context.Context) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	if _, ok := id.(domain.ClientIdentity); ok {
		return a.open(ctx, router.ViewMyShipments)
	}
	return a.open(ctx, router.ViewAllShipments)
}

func (a *App) shipment(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "delete" {
		return usageError("shipment delete <id>")
	}
	if _, err := a.require(router.ViewAllShipments); err != nil {
		return err
	}
	id, err := idArg("shipment", args[1:])
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Delete shipment %d?", id))
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}
	if err := a.Shipments.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Deleted.")
	return a.open(ctx, router.ViewAllShipments)
}

// ship registers a shipment after showing the clients to pick from.
func (a *App) ship(ctx context.Context) error {
	if err := a.open(ctx, router.ViewRegisterShipment); err != nil {
		return err
	}

	var in ports.RegisterShipmentInput
	var weight, toOffice string
	if err := a.fill(
		number("Sender client id", &in.SenderID),
		number("Receiver client id", &in.ReceiverID),
		text("Delivery address", &in.DeliveryAddress),
		text("Weight (kg)", &weight),
		text("Deliver to office (y/N)", &toOffice),
	); err != nil {
		return err
	}
	in.Weight, _ = strconv.ParseFloat(strings.TrimSpace(weight), 64)
	switch strings.ToLower(toOffice) {
	case "y", "yes":
		in.ToOffice = true
	}

	s, err := a.Shipments.Register(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Shipment %d registered.\n", s.ID)
	return nil
}

func (a *App) deliver(ctx context.Context, args []string) error {
	if _, err := a.require(router.ViewAllShipments); err != nil {
		return err
	}
	id, err := idArg("shipment", args)
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Mark shipment %d as delivered?", id))
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}
	s, err := a.Shipments.Deliver(ctx, id)
	if err != nil {
		return err
	}
	a.printf("Shipment %d is %s.\n", s.ID, s.Status)
	return nil
}

// report runs a report query; without arguments it lists them.
func (a *App) report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.open(ctx, router.ViewReports)
	}
	if _, err := a.require(router.ViewReports); err != nil {
		return err
	}

	var (
		title string
		list  []domain.Shipment
		err   error
	)
	switch args[0] {
	case "not-delivered":
		title = "Shipments Not Delivered"
		list, err = a.Shipments.NotDelivered(ctx)
	case "status":
		if len(args) < 2 {
			return usageError("report status <SHIPPED|DELIVERED>")
		}
		title = "Shipments " + strings.ToUpper(args[1])
		list, err = a.Shipments.ByStatus(ctx, args[1])
	case "employee":
		if len(args) < 2 {
			return usageError("report employee <id>")
		}
		title = "Shipments Registered by Employee " + args[1]
		list, err = a.Shipments.RegisteredByEmployee(ctx, args[1])
	case "sent":
		if len(args) < 2 {
			return usageError("report sent <client id>")
		}
		title = "Shipments Sent by Client " + args[1]
		list, err = a.Shipments.SentByClient(ctx, args[1])
	case "received":
		if len(args) < 2 {
			return usageError("report received <client id>")
		}
		title = "Shipments Received by Client " + args[1]
		list, err = a.Shipments.ReceivedByClient(ctx, args[1])
	case "revenue":
		if len(args) < 3 {
			return usageError("report revenue <YYYY-MM-DD> <YYYY-MM-DD>")
		}
		rev, err := a.Reports.Revenue(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		a.renderPage(router.RevenuePage{Revenue: *rev})
		return nil
	default:
		return usageError("report [not-delivered | status <s> | employee <id> | sent <id> | received <id> | revenue <from> <to>]")
	}
	if err != nil {
		return err
	}
	a.renderPage(router.ShipmentsPage{Title: title, Shipments: list})
	return nil
}
