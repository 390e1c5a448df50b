package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/logistics-console/internal/api"
	"github.com/99minutos/logistics-console/internal/api/middleware"
	"github.com/99minutos/logistics-console/internal/app"
	"github.com/99minutos/logistics-console/internal/infrastructure/config"
	"github.com/99minutos/logistics-console/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "console",
	})

	secret := cfg.Session.Secret
	if secret == "" {
		secret = randomSecret()
		log.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions end on restart")
	}

	core := app.NewCore(cfg.Backend)
	sessions := core.NewRegistry(cfg.Session.TTL)
	e, err := api.NewRouter(api.Deps{
		Accounts:     sessions,
		Sessions:     middleware.NewSessions(secret, cfg.Session.TTL, cfg.Session.CookieSecure, sessions),
		Backend:      core.Backend,
		Companies:    core.Companies,
		Clients:      core.Clients,
		Employees:    core.Employees,
		Offices:      core.Offices,
		Shipments:    core.Shipments,
		Reports:      core.Reports,
		Logger:       logger.Component("http"),
		CookieSecure: cfg.Session.CookieSecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("building router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sessions.CloseAll()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
