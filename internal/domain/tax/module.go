package tax

// Module identity as registered with the host storefront.
const (
	ModuleUniqueName  = "ExtensionSeven.FixTax.ByAvalara.website.com"
	ModuleDisplayName = "Services: Extension Seven"
)

// ModuleType is a checkout stage classifier
type ModuleType string

const (
	ModuleTypeShipping ModuleType = "Shipping"
	ModuleTypePayment  ModuleType = "Payment"
)

// IsValid returns true if the adapter participates in this checkout stage
func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleTypeShipping, ModuleTypePayment:
		return true
	default:
		return false
	}
}

// String returns the string representation of ModuleType
func (t ModuleType) String() string {
	return string(t)
}

// IsModuleType reports whether the host should invoke the adapter for the
// given checkout stage. Matching is exact and case sensitive.
func IsModuleType(kind string) bool {
	return ModuleType(kind).IsValid()
}
