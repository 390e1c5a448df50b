package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health (liveness).
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessHandler handles GET /health/ready (readiness).
// The console is ready when the logistics backend answers.
type ReadinessHandler struct {
	backend Pinger
}

func NewReadinessHandler(backend Pinger) *ReadinessHandler {
	return &ReadinessHandler{backend: backend}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	status, httpStatus := "ok", http.StatusOK

	if err := h.backend.Ping(ctx); err != nil {
		deps["backend"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
