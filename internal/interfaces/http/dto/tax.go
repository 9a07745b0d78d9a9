package dto

// CalculateTaxRequest is one host tax invocation
type CalculateTaxRequest struct {
	OrderID         string    `json:"order_id" binding:"required,max=64"`
	TaxableAmount   float64   `json:"taxable_amount"`
	CurrencyCode    string    `json:"currency_code" binding:"omitempty,len=3,alpha"`
	PriceCategories []string  `json:"price_categories"`
	PriceTaxLocales []string  `json:"price_tax_locales"`
	PriceAmount     []float64 `json:"price_amount"`
	TaxLocaleID     []string  `json:"tax_locale_id"`
	TaxAmount       []float64 `json:"tax_amount"`
}

// CalculateTaxResponse carries the status code and the host output array
type CalculateTaxResponse struct {
	Status    int       `json:"status"`
	TaxAmount []float64 `json:"tax_amount"`
}

// ConfigurationRequest mirrors the host configuration call.
// A missing parameters object asks for the configuration form.
type ConfigurationRequest struct {
	Parameters map[string]string `json:"parameters"`
}

// ConfigurationResponse carries the rendered form, empty after a save
type ConfigurationResponse struct {
	HTML string `json:"html"`
}

// SettingsResponse describes the stored module settings
type SettingsResponse struct {
	Module       string            `json:"module"`
	Settings     map[string]string `json:"settings"`
	DebugEnabled bool              `json:"debug_enabled"`
}

// ModuleResponse describes the module identity
type ModuleResponse struct {
	UniqueName  string   `json:"unique_name"`
	DisplayName string   `json:"display_name"`
	Parameters  []string `json:"parameters"`
	Types       []string `json:"types"`
}

// ModuleTypeResponse answers whether the module runs for a host step
type ModuleTypeResponse struct {
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}
