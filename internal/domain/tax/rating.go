package tax

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrLineAmountUnavailable is returned when no line amount can be resolved.
var ErrLineAmountUnavailable = errors.New("tax: line amount unavailable")

// Address is the single-location address sent to the rating provider.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// RatingRequest is an immutable rating request holding exactly one address
// and one taxable line amount. Build it with BuildRatingRequest.
type RatingRequest struct {
	orderID      string
	address      Address
	lineAmount   decimal.Decimal
	currencyCode string
}

// BuildRatingRequest maps the shipping fields of an order into a rating request
// with a single line equal to lineAmount. The currency code is forwarded as is.
func BuildRatingRequest(order OrderContext, lineAmount decimal.Decimal, currencyCode string) RatingRequest {
	return RatingRequest{
		orderID: order.OrderID,
		address: Address{
			Line1:      order.Address1,
			Line2:      order.Address2,
			City:       order.City,
			Region:     order.State,
			PostalCode: order.PostalCode,
			Country:    order.Country,
		},
		lineAmount:   lineAmount,
		currencyCode: currencyCode,
	}
}

// OrderID returns the host order identifier
func (r RatingRequest) OrderID() string { return r.orderID }

// Address returns a copy of the single-location address
func (r RatingRequest) Address() Address { return r.address }

// LineAmount returns the one taxable line amount
func (r RatingRequest) LineAmount() decimal.Decimal { return r.lineAmount }

// CurrencyCode returns the host currency code, possibly empty
func (r RatingRequest) CurrencyCode() string { return r.currencyCode }

// LineCount is always one.
func (r RatingRequest) LineCount() int { return 1 }

// RatingResult is the provider's answer. TotalTax is invalid when the
// provider omitted the figure or returned null.
type RatingResult struct {
	TotalTax decimal.NullDecimal
}

// NewRatingResult creates a result with a present total tax
func NewRatingResult(total decimal.Decimal) RatingResult {
	return RatingResult{TotalTax: decimal.NewNullDecimal(total)}
}

// Interpret converts the provider total to the host output representation.
// An absent total is exactly zero; no rounding policy is applied.
func Interpret(result RatingResult) float64 {
	if !result.TotalTax.Valid {
		return 0
	}
	return result.TotalTax.Decimal.InexactFloat64()
}

// RatingClient is the port to the external tax-rating provider.
// Implementations issue at most one provider request per call and never retry.
type RatingClient interface {
	Rate(ctx context.Context, req RatingRequest) (RatingResult, error)
}

// Credentials is the account/license pair used to authenticate with the provider.
type Credentials struct {
	AccountID  string
	LicenseKey string
}

// IsZero reports whether either half of the pair is missing
func (c Credentials) IsZero() bool {
	return c.AccountID == "" || c.LicenseKey == ""
}

// CredentialProvider supplies provider credentials at session creation time.
type CredentialProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// LineAmountSource resolves the taxable line amount for one invocation.
type LineAmountSource interface {
	LineAmount(ctx context.Context, in CalculationInput) (decimal.Decimal, error)
}
