package tax

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/taxbridge/backend/internal/domain/tax"
)

// TaxableAmountSource puts the host-supplied taxable amount on the line.
type TaxableAmountSource struct{}

// LineAmount implements tax.LineAmountSource
func (TaxableAmountSource) LineAmount(_ context.Context, in tax.CalculationInput) (decimal.Decimal, error) {
	if math.IsNaN(in.TaxableAmount) || math.IsInf(in.TaxableAmount, 0) {
		return decimal.Zero, fmt.Errorf("%w: taxable amount %v is not a finite number", tax.ErrLineAmountUnavailable, in.TaxableAmount)
	}
	return decimal.NewFromFloat(in.TaxableAmount), nil
}

// FixedLineAmountSource puts one configured amount on every line,
// regardless of the invocation.
type FixedLineAmountSource struct {
	amount decimal.Decimal
}

// NewFixedLineAmountSource parses the configured amount
func NewFixedLineAmountSource(value string) (*FixedLineAmountSource, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: no fixed amount configured", tax.ErrLineAmountUnavailable)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid fixed amount %q: %w", tax.ErrLineAmountUnavailable, value, err)
	}
	return &FixedLineAmountSource{amount: amount}, nil
}

// LineAmount implements tax.LineAmountSource
func (s *FixedLineAmountSource) LineAmount(context.Context, tax.CalculationInput) (decimal.Decimal, error) {
	return s.amount, nil
}
