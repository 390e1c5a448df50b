package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/logistics-console/internal/app"
	"github.com/99minutos/logistics-console/internal/cli"
	"github.com/99minutos/logistics-console/internal/core/session"
	"github.com/99minutos/logistics-console/internal/infrastructure/config"
	"github.com/99minutos/logistics-console/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadTerminal(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with tables on stdout.
	level := cfg.LogLevel
	if level == "info" {
		level = "warn"
	}
	logger.Init(logger.Options{
		Level:    level,
		Pretty:   true,
		Output:   os.Stderr,
		Service:  "consolectl",
		NoCaller: true,
	})

	core := app.NewCore(cfg.Backend)
	gate := core.NewGate()
	ctx = session.WithGate(ctx, gate)

	repl := cli.New(cli.Deps{
		Auth:      gate,
		Router:    core.Router,
		Companies: core.Companies,
		Clients:   core.Clients,
		Employees: core.Employees,
		Offices:   core.Offices,
		Shipments: core.Shipments,
		Reports:   core.Reports,
		Logger:    logger.Component("cli"),
	}, os.Stdin, os.Stdout)
	gate.OnChange(repl.SessionChanged)

	err = repl.Run(ctx)
	gate.Logout()
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
