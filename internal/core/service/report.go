package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

type ReportService struct {
	gw     ports.Gateway
	logger zerolog.Logger
}

func NewReportService(gw ports.Gateway, logger zerolog.Logger) *ReportService {
	return &ReportService{gw: gw, logger: logger}
}

// Revenue asks the backend for the income of shipments delivered between
// start and end inclusive. Both dates are YYYY-MM-DD.
func (r *ReportService) Revenue(ctx context.Context, start, end string) (*ports.Revenue, error) {
	from, err := parseReportDate("startDate", start)
	if err != nil {
		return nil, err
	}
	to, err := parseReportDate("endDate", end)
	if err != nil {
		return nil, err
	}
	if from.After(to.Time) {
		return nil, domain.NewValidationError("endDate", "must not be before the start date")
	}

	q := url.Values{}
	q.Set("startDate", from.String())
	q.Set("endDate", to.String())

	var total float64
	if err := r.gw.Do(ctx, http.MethodGet, shipmentsPath+"/revenue?"+q.Encode(), nil, &total); err != nil {
		return nil, err
	}

	r.logger.Debug().Str("start", from.String()).Str("end", to.String()).Float64("total", total).Msg("revenue computed")
	return &ports.Revenue{Start: from, End: to, Total: total}, nil
}

func parseReportDate(field, raw string) (domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Date{}, domain.NewValidationError(field, "is required")
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, domain.NewValidationError(field, "must be a date in the form YYYY-MM-DD")
	}
	return d, nil
}

var _ ports.ReportService = (*ReportService)(nil)
