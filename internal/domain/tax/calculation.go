package tax

import "errors"

// ErrInvalidTaxOutput is returned when the host output array has no slot 0.
var ErrInvalidTaxOutput = errors.New("tax: tax output must have at least one element")

// StatusCode is the result reported back to the host platform
type StatusCode int

const (
	StatusSuccess StatusCode = 0
	StatusFailure StatusCode = 1
)

// CalculationState is a step of one tax calculation
type CalculationState string

const (
	StateIdle                CalculationState = "IDLE"
	StateFieldsExtracted     CalculationState = "FIELDS_EXTRACTED"
	StateRequestBuilt        CalculationState = "REQUEST_BUILT"
	StateProviderCalled      CalculationState = "PROVIDER_CALLED"
	StateResponseInterpreted CalculationState = "RESPONSE_INTERPRETED"
	StateDone                CalculationState = "DONE"
)

// CalculationStates lists the states in the order a successful calculation visits them.
var CalculationStates = []CalculationState{
	StateIdle,
	StateFieldsExtracted,
	StateRequestBuilt,
	StateProviderCalled,
	StateResponseInterpreted,
	StateDone,
}

// DiagnosticEventsPerCalculation is the number of diagnostic events a
// successful calculation records when diagnostics are enabled.
var DiagnosticEventsPerCalculation = len(CalculationStates)

// String returns the string representation of CalculationState
func (s CalculationState) String() string {
	return string(s)
}

// Next returns the state that follows s, and false for StateDone or unknown states.
func (s CalculationState) Next() (CalculationState, bool) {
	for i, st := range CalculationStates {
		if st == s && i+1 < len(CalculationStates) {
			return CalculationStates[i+1], true
		}
	}
	return "", false
}

// CalculationInput carries the read-only arguments of one host invocation.
// Slices may be empty but are never written.
type CalculationInput struct {
	OrderID         string
	TaxableAmount   float64
	CurrencyCode    string
	PriceCategories []string
	PriceTaxLocales []string
	PriceAmount     []float64
	TaxLocaleID     []string
}
