package tax

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildRatingRequest(t *testing.T) {
	order := OrderContext{
		OrderID:    "1001",
		Address1:   "123 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
		Country:    "US",
	}

	req := BuildRatingRequest(order, decimal.NewFromFloat(150), "USD")

	assert.Equal(t, "1001", req.OrderID())
	assert.Equal(t, Address{
		Line1:      "123 Main St",
		Line2:      "",
		City:       "Austin",
		Region:     "TX",
		PostalCode: "78701",
		Country:    "US",
	}, req.Address())
	assert.True(t, req.LineAmount().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "USD", req.CurrencyCode())
	assert.Equal(t, 1, req.LineCount())
}

func TestBuildRatingRequest_AbsentFields(t *testing.T) {
	// every subset of the six address fields may be absent
	names := []string{
		FieldShippingAddress1,
		FieldShippingAddress2,
		FieldShippingCity,
		FieldShippingState,
		FieldShippingPostalCode,
		FieldShippingCountry,
	}
	full := map[string]string{
		FieldShippingAddress1:   "123 Main St",
		FieldShippingAddress2:   "Suite 4",
		FieldShippingCity:       "Austin",
		FieldShippingState:      "TX",
		FieldShippingPostalCode: "78701",
		FieldShippingCountry:    "US",
	}

	for mask := 0; mask < 1<<len(names); mask++ {
		var order OrderContext
		for i, name := range names {
			if mask&(1<<i) != 0 {
				order.Set(name, full[name])
			}
		}

		req := BuildRatingRequest(order, decimal.Zero, "")
		addr := req.Address()
		got := []string{addr.Line1, addr.Line2, addr.City, addr.Region, addr.PostalCode, addr.Country}
		for i, name := range names {
			if mask&(1<<i) != 0 {
				assert.Equal(t, full[name], got[i], "mask %d field %s", mask, name)
			} else {
				assert.Empty(t, got[i], "mask %d field %s", mask, name)
			}
		}
	}
}

func TestBuildRatingRequest_Immutable(t *testing.T) {
	order := OrderContext{City: "Austin"}
	req := BuildRatingRequest(order, decimal.NewFromInt(10), "USD")

	order.City = "Dallas"
	addr := req.Address()
	addr.City = "Houston"

	assert.Equal(t, "Austin", req.Address().City)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name     string
		result   RatingResult
		expected float64
	}{
		{"present", NewRatingResult(decimal.RequireFromString("12.34")), 12.34},
		{"zero", NewRatingResult(decimal.Zero), 0},
		{"many digits", NewRatingResult(decimal.RequireFromString("1234567.891011")), 1234567.891011},
		{"absent", RatingResult{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.result)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestInterpret_AbsentIsExactlyZero(t *testing.T) {
	got := Interpret(RatingResult{TotalTax: decimal.NullDecimal{}})
	assert.Equal(t, 0.0, got)
	assert.False(t, math.Signbit(got))
}

func TestCredentials_IsZero(t *testing.T) {
	assert.True(t, Credentials{}.IsZero())
	assert.True(t, Credentials{AccountID: "1"}.IsZero())
	assert.True(t, Credentials{LicenseKey: "k"}.IsZero())
	assert.False(t, Credentials{AccountID: "1", LicenseKey: "k"}.IsZero())
}
