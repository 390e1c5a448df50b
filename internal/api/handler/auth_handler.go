package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

// SessionIssuer gives each browser its own console session.
type SessionIssuer interface {
	Start(c echo.Context) (string, ports.AuthService)
	Issue(c echo.Context, id string) error
	Discard(id string)
	End(c echo.Context)
}

// Registrar creates accounts without a session.
type Registrar interface {
	Register(ctx context.Context, in ports.RegisterInput) error
}

type AuthHandler struct {
	accounts Registrar
	sessions SessionIssuer
	logger   zerolog.Logger
}

func NewAuthHandler(accounts Registrar, sessions SessionIssuer, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Role     string `form:"role"`
	LinkID   string `form:"linkId"`
}

// LoginPage is the login form. Password is never echoed back.
type LoginPage struct {
	Username string
}

// RegisterPage is the registration form.
type RegisterPage struct {
	Username string
	Role     string
	LinkID   string
	Roles    []domain.UserType
}

// LoginForm renders GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "login", "", LoginPage{}, "")
}

// Login verifies the credentials with the backend and starts the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := LoginPage{Username: req.Username}

	id, auth := h.sessions.Start(c)
	if _, err := auth.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		h.sessions.Discard(id)
		if msg, ok := validationMessage(err); ok {
			return render(c, http.StatusUnprocessableEntity, "login", "", page, msg)
		}
		var ae *domain.AuthenticationError
		if errors.As(err, &ae) {
			return render(c, http.StatusUnauthorized, "login", "", page, ae.Message)
		}
		return err
	}

	if err := h.sessions.Issue(c, id); err != nil {
		// The session was closed while the login was in flight.
		h.sessions.Discard(id)
		h.logger.Warn().Err(err).Msg("session changed before the cookie was issued")
		return render(c, http.StatusConflict, "login", "", page, "login was interrupted, please try again")
	}
	return redirect(c, "/")
}

// RegisterForm renders GET /register.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, http.StatusOK, "register", "", RegisterPage{Role: string(domain.UserTypeClient), Roles: userTypes}, "")
}

// Register creates an account and sends the user to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := RegisterPage{Username: req.Username, Role: req.Role, LinkID: req.LinkID, Roles: userTypes}

	err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		LinkID:   req.LinkID,
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			return render(c, http.StatusUnprocessableEntity, "register", "", page, msg)
		}
		var re *domain.RegistrationError
		if errors.As(err, &re) {
			return render(c, http.StatusBadRequest, "register", "", page, re.Error())
		}
		return err
	}
	return redirect(c, "/login?msg=registered")
}

// Logout ends this browser's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.End(c)
	return redirect(c, "/login?msg=logout")
}

var userTypes = []domain.UserType{domain.UserTypeClient, domain.UserTypeEmployee}
