// Package report runs the dashboard reports: fetch the company collection,
// apply one transform, hand back a value ready for rendering.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/okian/painel/internal/adapters/upstream"
	"github.com/okian/painel/internal/domain/empresa"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// Report names used in logs and metric labels.
const (
	NameGroupByRegime      = "group_by_regime"
	NameWithTaxID          = "with_tax_id"
	NameWithoutTaxID       = "without_tax_id"
	NameActive             = "active"
	NameInactive           = "inactive"
	NameCountActiveByMonth = "count_active_by_month"
	NameByPartner          = "by_partner"
	NameGroupByActivity    = "group_by_activity"
	NameRaw                = "raw"
)

// ErrUnknownStatus is returned by ByStatus for anything but ativa or inativa.
var ErrUnknownStatus = errors.New("unknown status")

// Fetcher retrieves a JSON document relative to the upstream base.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string) (json.RawMessage, error)
}

// Service runs reports against one collection.
type Service struct {
	fetcher    Fetcher
	collection string
	labeler    empresa.MonthLabeler
	log        logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Service reading collection through fetcher.
func New(fetcher Fetcher, collection string, labeler empresa.MonthLabeler, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		collection: collection,
		labeler:    labeler,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the path the reports read.
func (s *Service) Collection() string { return s.collection }

// GroupByRegime groups companies by tax regime.
func (s *Service) GroupByRegime(ctx context.Context) (*empresa.Groups, error) {
	return run(ctx, s, NameGroupByRegime, func(rs []empresa.Record) *empresa.Groups {
		return empresa.GroupByField(rs, empresa.FieldRegime)
	})
}

// WithTaxID lists companies that have a CPF/CNPJ.
func (s *Service) WithTaxID(ctx context.Context) ([]empresa.Record, error) {
	return run(ctx, s, NameWithTaxID, func(rs []empresa.Record) []empresa.Record {
		return empresa.FilterPresent(rs, empresa.FieldTaxID)
	})
}

// WithoutTaxID lists companies missing a CPF/CNPJ.
func (s *Service) WithoutTaxID(ctx context.Context) ([]empresa.Record, error) {
	return run(ctx, s, NameWithoutTaxID, func(rs []empresa.Record) []empresa.Record {
		return empresa.FilterAbsent(rs, empresa.FieldTaxID)
	})
}

// ByStatus lists companies whose status is exactly status.
func (s *Service) ByStatus(ctx context.Context, status string) ([]empresa.Record, error) {
	var name string
	switch status {
	case empresa.StatusActive:
		name = NameActive
	case empresa.StatusInactive:
		name = NameInactive
	default:
		return nil, ErrUnknownStatus
	}
	return run(ctx, s, name, func(rs []empresa.Record) []empresa.Record {
		return empresa.FilterStatus(rs, status)
	})
}

// CountActiveByMonth counts active companies per registration month.
func (s *Service) CountActiveByMonth(ctx context.Context) (*empresa.Counts, error) {
	return run(ctx, s, NameCountActiveByMonth, func(rs []empresa.Record) *empresa.Counts {
		return empresa.CountActiveByMonth(rs, s.labeler)
	})
}

// CompaniesByPartner lists the ids of the companies name is a partner of.
// A blank name is answered with an input error value and nothing is fetched.
func (s *Service) CompaniesByPartner(ctx context.Context, name string) (any, error) {
	partner, inputErr := empresa.NormalizePartner(name)
	if inputErr != nil {
		metrics.RecordReportRun(NameByPartner, metrics.OutcomeInputError, 0)
		s.log.Debug(ctx, "partner name missing", logger.String("report", NameByPartner))
		return inputErr, nil
	}
	res, err := run(ctx, s, NameByPartner, func(rs []empresa.Record) empresa.PartnerResult {
		return empresa.CompaniesByPartner(rs, partner)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GroupByActivity groups companies by line of business.
func (s *Service) GroupByActivity(ctx context.Context) (*empresa.Groups, error) {
	return run(ctx, s, NameGroupByActivity, func(rs []empresa.Record) *empresa.Groups {
		return empresa.GroupByField(rs, empresa.FieldActivity)
	})
}

// Raw fetches path and returns the document untouched.
func (s *Service) Raw(ctx context.Context, path string) (json.RawMessage, error) {
	start := time.Now()
	body, err := s.fetcher.FetchJSON(ctx, path)
	s.finish(ctx, NameRaw, path, start, err)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// run fetches the collection, decodes it and applies transform.
func run[T any](ctx context.Context, s *Service, name string, transform func([]empresa.Record) T) (T, error) {
	var zero T
	start := time.Now()

	body, err := s.fetcher.FetchJSON(ctx, s.collection)
	if err != nil {
		s.finish(ctx, name, s.collection, start, err)
		return zero, err
	}
	records, err := empresa.Decode(body)
	if err != nil {
		err = &upstream.ParseError{Path: s.collection, Err: err}
		s.finish(ctx, name, s.collection, start, err)
		return zero, err
	}

	out := transform(records)
	s.finish(ctx, name, s.collection, start, nil)
	return out, nil
}

func (s *Service) finish(ctx context.Context, name, path string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, upstream.ErrParse):
		outcome = metrics.OutcomeParseError
	case err != nil:
		outcome = metrics.OutcomeTransportError
	}
	metrics.RecordReportRun(name, outcome, float64(elapsed.Milliseconds()))

	if err != nil {
		s.log.Warn(ctx, "report failed",
			logger.String("report", name),
			logger.String("path", path),
			logger.Error(err))
		return
	}
	s.log.Debug(ctx, "report done",
		logger.String("report", name),
		logger.String("path", path),
		logger.Duration("took", elapsed))
}
