package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/cpf-validator/internal/cpf"
	"github.com/deppfellow/cpf-validator/internal/metrics"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// MaxBatchSize is the largest number of CPFs accepted by ValidateBatch.
const MaxBatchSize = 100

// ErrBatchTooLarge is returned by ValidateBatch past MaxBatchSize entries.
var ErrBatchTooLarge = errors.New("batch too large")

// Result is the outcome of validating one candidate CPF.
type Result struct {
	Valid bool

	// Reason is cpf.ReasonNone when Valid is true.
	Reason cpf.Reason

	// Formatted is the XXX.XXX.XXX-XX form, empty when invalid.
	Formatted string
}

// CPFService validates CPFs and records every verdict.
//
// It holds no mutable state of its own; concurrent use is safe.
type CPFService struct {
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

// NewCPFService creates a CPFService. Both dependencies are optional.
func NewCPFService(logger *zerolog.Logger, m *metrics.Metrics) *CPFService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CPFService{logger: logger, metrics: m}
}

// Validate checks raw and records the verdict.
//
// The raw value is never logged; only its masked form is.
func (s *CPFService) Validate(ctx context.Context, raw string) Result {
	start := time.Now()
	reason := cpf.Check(raw)

	result := Result{
		Valid:  reason == cpf.ReasonNone,
		Reason: reason,
	}
	if result.Valid {
		result.Formatted, _ = cpf.Format(raw)
	}

	if s.metrics != nil {
		s.metrics.ObserveValidation(reason, start)
	}

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("cpf.valid", result.Valid)
		txn.AddAttribute("cpf.reason", string(reason))
	}

	s.loggerFrom(ctx).Debug().
		Str("cpf", cpf.Mask(raw)).
		Bool("valid", result.Valid).
		Str("reason", string(reason)).
		Dur("duration", time.Since(start)).
		Msg("cpf validated")

	return result
}

// ValidateBatch validates each entry of raws in order.
//
// It returns ErrBatchTooLarge, without validating anything, when raws holds
// more than MaxBatchSize entries.
func (s *CPFService) ValidateBatch(ctx context.Context, raws []string) ([]Result, error) {
	if len(raws) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d entries", ErrBatchTooLarge, len(raws))
	}

	results := make([]Result, len(raws))
	for i, raw := range raws {
		results[i] = s.Validate(ctx, raw)
	}
	return results, nil
}

// loggerFrom prefers the request-scoped logger stored in ctx by the
// context enhancer middleware.
func (s *CPFService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
