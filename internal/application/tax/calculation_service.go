// Package tax orchestrates one tax calculation per host invocation: it reads
// the order fields, builds the rating request, calls the provider and writes
// the interpreted amount back to the host output.
package tax

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/infrastructure/telemetry"
)

// CalculationService runs the calculation state machine.
// It holds no per-invocation state and is safe for concurrent use.
type CalculationService struct {
	extractor  *FieldExtractor
	lineAmount tax.LineAmountSource
	client     tax.RatingClient
	sink       tax.DiagnosticsSink
	metrics    *telemetry.TaxMetrics
	logger     *zap.Logger
	newID      func() string
}

// CalculationOption configures a CalculationService
type CalculationOption func(*CalculationService)

// WithMetrics records calculation metrics
func WithMetrics(m *telemetry.TaxMetrics) CalculationOption {
	return func(s *CalculationService) { s.metrics = m }
}

// WithInvocationIDs replaces the invocation ID generator
func WithInvocationIDs(fn func() string) CalculationOption {
	return func(s *CalculationService) { s.newID = fn }
}

// NewCalculationService creates a new CalculationService
func NewCalculationService(
	reader tax.OrderFieldReader,
	lineAmount tax.LineAmountSource,
	client tax.RatingClient,
	sink tax.DiagnosticsSink,
	logger *zap.Logger,
	opts ...CalculationOption,
) *CalculationService {
	if sink == nil {
		sink = tax.NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CalculationService{
		extractor:  NewFieldExtractor(reader),
		lineAmount: lineAmount,
		client:     client,
		sink:       sink,
		logger:     logger,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate computes the tax for one order and writes it to taxAmount[0].
// On any failure taxAmount is left untouched and StatusFailure is returned
// with the error. A zero-length taxAmount is rejected before anything else
// happens.
func (s *CalculationService) Calculate(
	ctx context.Context,
	in tax.CalculationInput,
	taxAmount []float64,
	diag tax.DiagnosticsConfig,
) (tax.StatusCode, error) {
	if len(taxAmount) == 0 {
		return tax.StatusFailure, tax.ErrInvalidTaxOutput
	}

	invocationID := s.newID()
	ctx, log := logger.WithInvocationID(ctx, s.logger, invocationID)
	ctx, span := telemetry.StartSpan(ctx, "tax.calculate",
		telemetry.KeyOrderID.String(in.OrderID),
		telemetry.KeyInvocationID.String(invocationID),
		telemetry.KeyCurrency.String(in.CurrencyCode),
	)
	defer span.End()

	rec := tax.NewRecorder(s.sink, diag)
	start := time.Now()

	amount, state, err := s.run(ctx, rec, span, in, taxAmount[0])

	s.metrics.RecordDiagnosticEvents(ctx, rec.Count())
	if err != nil {
		s.metrics.RecordCalculation(ctx, telemetry.CalculationStatusFailed, diag.DebugEnabled)
		telemetry.Fail(span, err, telemetry.KeyState.String(state.String()))
		logger.L(ctx).Warn("Tax calculation failed",
			zap.String("order_id", in.OrderID),
			zap.String("state", state.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return tax.StatusFailure, err
	}

	taxAmount[0] = amount

	s.metrics.RecordCalculation(ctx, telemetry.CalculationStatusSuccess, diag.DebugEnabled)
	telemetry.Succeed(span, telemetry.KeyTaxAmount.Float64(amount))
	log.Info("Tax calculated",
		zap.String("order_id", in.OrderID),
		zap.Float64("tax_amount", amount),
		zap.Int("diagnostic_events", rec.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return tax.StatusSuccess, nil
}

// run walks the states and returns the interpreted amount, or the state the
// calculation failed in. It never writes the host output.
func (s *CalculationService) run(
	ctx context.Context,
	rec *tax.Recorder,
	span trace.Span,
	in tax.CalculationInput,
	current float64,
) (float64, tax.CalculationState, error) {
	state := tax.StateIdle
	rec.Record(ctx, idleEvent(in, current))

	order, err := s.extractor.Extract(ctx, in.OrderID)
	if err != nil {
		return 0, state, err
	}
	state = tax.StateFieldsExtracted
	rec.Record(ctx, fieldsEvent(order))

	lineAmount, err := s.lineAmount.LineAmount(ctx, in)
	if err != nil {
		if !errors.Is(err, tax.ErrLineAmountUnavailable) {
			err = fmt.Errorf("%w: %w", tax.ErrLineAmountUnavailable, err)
		}
		return 0, state, err
	}
	req := tax.BuildRatingRequest(order, lineAmount, in.CurrencyCode)
	state = tax.StateRequestBuilt
	span.SetAttributes(
		telemetry.KeyLineAmount.String(lineAmount.String()),
		telemetry.KeyPostalCode.String(order.PostalCode),
	)
	rec.Record(ctx, requestEvent(req))

	result, err := s.client.Rate(ctx, req)
	if err != nil {
		var perr *tax.ProviderError
		if errors.As(err, &perr) {
			span.SetAttributes(telemetry.KeyProviderError.String(perr.Kind.String()))
		}
		return 0, state, err
	}
	state = tax.StateProviderCalled
	rec.Record(ctx, "Client created. The transaction has been created")

	amount := tax.Interpret(result)
	state = tax.StateResponseInterpreted
	rec.Record(ctx, interpretedEvent(result, amount))

	state = tax.StateDone
	rec.Record(ctx, fmt.Sprintf("The zipcode was: %s | The new TaxAmount is: %v | END Avalara tax calculation", order.PostalCode, amount))

	return amount, state, nil
}

func idleEvent(in tax.CalculationInput, current float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "START Avalara tax calculation | OrderID: %s | TaxableAmount: %v | CurrencyCode: %s", in.OrderID, in.TaxableAmount, in.CurrencyCode)
	fmt.Fprintf(&b, " | PriceCategories: %d | PriceTaxLocales: %d | PriceAmount: %d | TaxLocaleId: %d",
		len(in.PriceCategories), len(in.PriceTaxLocales), len(in.PriceAmount), len(in.TaxLocaleID))
	if len(in.TaxLocaleID) > 0 {
		fmt.Fprintf(&b, " | TaxLocaleId[0]: %s", in.TaxLocaleID[0])
	}
	fmt.Fprintf(&b, " | Tax amount is: %v before we retrieve from Avalara", current)
	return b.String()
}

func fieldsEvent(order tax.OrderContext) string {
	parts := make([]string, 0, len(tax.OrderFields))
	for _, name := range tax.OrderFields {
		value, _ := order.Get(name)
		parts = append(parts, name+": "+value)
	}
	return "Order fields | " + strings.Join(parts, " | ")
}

func requestEvent(req tax.RatingRequest) string {
	addr := req.Address()
	currency := req.CurrencyCode()
	if currency == "" {
		currency = "(provider default)"
	}
	return fmt.Sprintf("Rating request | Address: %s, %s, %s, %s %s, %s | Lines: %d | Amount: %s | Currency: %s",
		addr.Line1, addr.Line2, addr.City, addr.Region, addr.PostalCode, addr.Country,
		req.LineCount(), req.LineAmount().String(), currency)
}

func interpretedEvent(result tax.RatingResult, amount float64) string {
	if !result.TotalTax.Valid {
		return fmt.Sprintf("Your calculated tax was: (none) | interpreted as %v", amount)
	}
	return fmt.Sprintf("Your calculated tax was: %s", result.TotalTax.Decimal.String())
}
