package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are created without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// CalculationStatus labels the outcome of a tax calculation.
type CalculationStatus string

const (
	CalculationStatusSuccess CalculationStatus = "success"
	CalculationStatusFailed  CalculationStatus = "failed"
)

// TaxMetrics records tax calculation and rating provider activity.
type TaxMetrics struct {
	calculationsTotal *Counter
	providerRequests  *Counter
	providerDuration  *Histogram
	diagnosticEvents  *Counter
}

// NewTaxMetrics registers the tax instruments on meter.
func NewTaxMetrics(meter metric.Meter) (*TaxMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	tm := &TaxMetrics{}
	var err error

	tm.calculationsTotal, err = NewCounter(meter,
		"taxbridge_calculations_total",
		"Total number of tax calculations",
		"{calculations}",
	)
	if err != nil {
		return nil, err
	}

	tm.providerRequests, err = NewCounter(meter,
		"taxbridge_provider_requests_total",
		"Total number of rating provider requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	tm.providerDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "taxbridge_provider_request_duration_seconds",
		Description: "Rating provider round trip duration",
		Unit:        "s",
		Boundaries:  ProviderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	tm.diagnosticEvents, err = NewCounter(meter,
		"taxbridge_diagnostic_events_total",
		"Total number of diagnostic events recorded",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	return tm, nil
}

// RecordCalculation counts one finished calculation.
func (tm *TaxMetrics) RecordCalculation(ctx context.Context, status CalculationStatus, debugEnabled bool) {
	if tm == nil {
		return
	}
	tm.calculationsTotal.Inc(ctx,
		AttrStatus.String(string(status)),
		AttrDebugEnabled.Bool(debugEnabled),
	)
}

// RecordProviderRequest counts one provider exchange and its duration.
// errorKind is empty for successful requests.
func (tm *TaxMetrics) RecordProviderRequest(ctx context.Context, provider, errorKind string, d time.Duration) {
	if tm == nil {
		return
	}
	status := CalculationStatusSuccess
	if errorKind != "" {
		status = CalculationStatusFailed
	}
	attrs := []attribute.KeyValue{
		AttrProvider.String(provider),
		AttrStatus.String(string(status)),
		AttrErrorKind.String(errorKind),
	}
	tm.providerRequests.Inc(ctx, attrs...)
	tm.providerDuration.RecordDuration(ctx, d, attrs[:2]...)
}

// RecordDiagnosticEvents counts diagnostic events written for one calculation.
func (tm *TaxMetrics) RecordDiagnosticEvents(ctx context.Context, n int) {
	if tm == nil || n == 0 {
		return
	}
	tm.diagnosticEvents.Add(ctx, int64(n))
}
