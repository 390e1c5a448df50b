package backend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/pkg/metrics"
)

const (
	pathRegister = "/users/register"
	pathMe       = "/auth/me"
)

// AuthClient implements ports.AuthAPI. It never reads the credential store:
// registration is anonymous and introspection uses the candidate credential.
type AuthClient struct {
	client *resty.Client
	log    zerolog.Logger
}

func NewAuthClient(client *resty.Client, log zerolog.Logger) *AuthClient {
	return &AuthClient{client: client, log: log}
}

// Register posts the registration as query parameters.
func (a *AuthClient) Register(ctx context.Context, in ports.RegisterRequest) error {
	params := map[string]string{
		"username": in.Username,
		"password": in.Password,
		"userType": string(in.UserType),
	}
	switch in.UserType {
	case domain.UserTypeClient:
		if in.ClientID > 0 {
			params["clientId"] = strconv.FormatInt(in.ClientID, 10)
		}
	case domain.UserTypeEmployee:
		if in.EmployeeID > 0 {
			params["employeeId"] = strconv.FormatInt(in.EmployeeID, 10)
		}
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, newRequestID()).
		SetQueryParams(params).
		Post(pathRegister)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("POST", "users", "error").Inc()
		return fmt.Errorf("register: %w", err)
	}
	metrics.BackendRequestsTotal.WithLabelValues("POST", "users", strconv.Itoa(resp.StatusCode())).Inc()

	if !resp.IsSuccess() {
		return &domain.GatewayError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}

// Me asks the backend who owns cred. Exactly one request is sent.
func (a *AuthClient) Me(ctx context.Context, cred domain.Credential) (domain.Identity, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, newRequestID()).
		SetHeader("Authorization", cred.Header()).
		Get(pathMe)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("GET", "auth", "error").Inc()
		return nil, fmt.Errorf("introspect: %w", err)
	}
	metrics.BackendRequestsTotal.WithLabelValues("GET", "auth", strconv.Itoa(resp.StatusCode())).Inc()

	if !resp.IsSuccess() {
		return nil, &domain.GatewayError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	id, err := domain.DecodeIdentity(resp.Body())
	if err != nil {
		a.log.Warn().Err(err).Msg("introspection returned an unusable identity")
		return nil, err
	}
	return id, nil
}

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are errors.
func (a *AuthClient) Ping(ctx context.Context) error {
	_, err := a.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, newRequestID()).
		Get(pathMe)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	return nil
}
