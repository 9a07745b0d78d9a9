package tax

import (
	"context"
	"errors"
)

// ErrOrderFieldRead is returned when the host order-field store fails.
// An absent field is not an error and never produces it.
var ErrOrderFieldRead = errors.New("tax: order field read failed")

// Field categories understood by the host order-field store.
const (
	FieldCategoryOrder          = "OrderField"
	FieldCategorySystemProperty = "SystemProperty"
)

// Order field names read for every calculation.
const (
	FieldShippingFirstName  = "ShippingFirstName"
	FieldShippingLastName   = "ShippingLastName"
	FieldShippingAddress1   = "ShippingAddress1"
	FieldShippingAddress2   = "ShippingAddress2"
	FieldShippingCity       = "ShippingCity"
	FieldShippingState      = "ShippingState"
	FieldShippingPostalCode = "ShippingPostalCode"
	FieldShippingCountry    = "ShippingCountry"
	FieldHandlingCharge     = "HandlingCharge"
	FieldShippingCharge     = "ShippingCharge"

	// SystemPropertyStorefrontName holds the display name of the current store.
	SystemPropertyStorefrontName = "StorefrontName"
)

// OrderFields lists the order fields in the order they are read.
var OrderFields = []string{
	FieldShippingFirstName,
	FieldShippingLastName,
	FieldShippingAddress1,
	FieldShippingAddress2,
	FieldShippingCity,
	FieldShippingState,
	FieldShippingPostalCode,
	FieldShippingCountry,
	FieldHandlingCharge,
	FieldShippingCharge,
}

// OrderContext identifies one order plus the fields needed for rating.
// Every field is the raw string supplied by the host; absent fields are empty.
type OrderContext struct {
	OrderID           string
	ShippingFirstName string
	ShippingLastName  string
	Address1          string
	Address2          string
	City              string
	State             string
	PostalCode        string
	Country           string
	HandlingCharge    string
	ShippingCharge    string
}

// Set assigns the value of a named order field.
// Unknown names are ignored and reported as false.
func (o *OrderContext) Set(name, value string) bool {
	switch name {
	case FieldShippingFirstName:
		o.ShippingFirstName = value
	case FieldShippingLastName:
		o.ShippingLastName = value
	case FieldShippingAddress1:
		o.Address1 = value
	case FieldShippingAddress2:
		o.Address2 = value
	case FieldShippingCity:
		o.City = value
	case FieldShippingState:
		o.State = value
	case FieldShippingPostalCode:
		o.PostalCode = value
	case FieldShippingCountry:
		o.Country = value
	case FieldHandlingCharge:
		o.HandlingCharge = value
	case FieldShippingCharge:
		o.ShippingCharge = value
	default:
		return false
	}
	return true
}

// Get returns the value of a named order field.
func (o OrderContext) Get(name string) (string, bool) {
	switch name {
	case FieldShippingFirstName:
		return o.ShippingFirstName, true
	case FieldShippingLastName:
		return o.ShippingLastName, true
	case FieldShippingAddress1:
		return o.Address1, true
	case FieldShippingAddress2:
		return o.Address2, true
	case FieldShippingCity:
		return o.City, true
	case FieldShippingState:
		return o.State, true
	case FieldShippingPostalCode:
		return o.PostalCode, true
	case FieldShippingCountry:
		return o.Country, true
	case FieldHandlingCharge:
		return o.HandlingCharge, true
	case FieldShippingCharge:
		return o.ShippingCharge, true
	default:
		return "", false
	}
}

// OrderFieldReader is the port to the host order-field store.
type OrderFieldReader interface {
	// GetValue returns the value of one field, or nil when the host has no value.
	// A non-nil error means the store itself failed.
	GetValue(ctx context.Context, category, name, orderID string) (*string, error)
}
