package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/pkg/metrics"
)

// Gateway implements ports.Gateway. Every call carries the live credential
// of the caller's session; a 401 closes that session.
type Gateway struct {
	client   *resty.Client
	sessions ports.SessionLocator
	log      zerolog.Logger
}

// NewGateway returns a Gateway that finds the session of each call through
// sessions.
func NewGateway(client *resty.Client, sessions ports.SessionLocator, log zerolog.Logger) *Gateway {
	return &Gateway{client: client, sessions: sessions, log: log}
}

// Do sends one request and decodes a successful JSON body into out.
//
// Non-2xx responses become *domain.GatewayError with the raw body. If the
// session changed while the request was in flight the response is dropped
// and domain.ErrStaleSession is returned.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	live := g.sessions.Locate(ctx)
	cred, epoch := live.Current()
	requestID := newRequestID()

	req := g.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID)
	if !cred.IsZero() {
		req.SetHeader("Authorization", cred.Header())
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	res := resource(path)
	start := time.Now()
	resp, err := req.Execute(method, path)
	metrics.BackendRequestDuration.WithLabelValues(method, res).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, res, "error").Inc()
		g.log.Error().Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Msg("backend request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	metrics.BackendRequestsTotal.WithLabelValues(method, res, strconv.Itoa(status)).Inc()

	logEvent := g.log.Debug()
	if !resp.IsSuccess() {
		logEvent = g.log.Warn()
	}
	logEvent.
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("elapsed", resp.Time()).
		Msg("backend request")

	if live.Epoch() != epoch {
		metrics.StaleResponsesTotal.Inc()
		return domain.ErrStaleSession
	}

	if !resp.IsSuccess() {
		gerr := &domain.GatewayError{Status: status, Body: string(resp.Body())}
		if gerr.Unauthorized() {
			live.Expire(epoch)
		}
		return gerr
	}

	raw := bytes.TrimSpace(resp.Body())
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.log.Warn().Err(err).Str("request_id", requestID).Str("path", path).Msg("undecodable backend response")
		return &domain.GatewayError{Status: status, Body: string(raw)}
	}
	return nil
}
