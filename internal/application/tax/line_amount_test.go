package tax

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/backend/internal/domain/tax"
)

func TestTaxableAmountSource(t *testing.T) {
	amount, err := TaxableAmountSource{}.LineAmount(context.Background(), tax.CalculationInput{TaxableAmount: 99.95})
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("99.95")))

	_, err = TaxableAmountSource{}.LineAmount(context.Background(), tax.CalculationInput{TaxableAmount: math.NaN()})
	assert.ErrorIs(t, err, tax.ErrLineAmountUnavailable)
}

func TestFixedLineAmountSource(t *testing.T) {
	src, err := NewFixedLineAmountSource("150")
	require.NoError(t, err)

	amount, err := src.LineAmount(context.Background(), tax.CalculationInput{TaxableAmount: 12})
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(150)))

	_, err = NewFixedLineAmountSource("")
	assert.ErrorIs(t, err, tax.ErrLineAmountUnavailable)

	_, err = NewFixedLineAmountSource("one fifty")
	assert.ErrorIs(t, err, tax.ErrLineAmountUnavailable)
}
