package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/interfaces/http/dto"
)

const calculateBody = `{
	"order_id": "1001",
	"taxable_amount": 100,
	"currency_code": "USD",
	"price_categories": ["Goods"],
	"tax_locale_id": ["US-TX"],
	"tax_amount": [0]
}`

func TestTaxHandler_Calculate_Success(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)
	diag := tax.DiagnosticsConfig{DebugEnabled: true}
	cfg.On("DiagnosticsConfig", mock.Anything).Return(diag, nil)

	expectedInput := tax.CalculationInput{
		OrderID:         "1001",
		TaxableAmount:   100,
		CurrencyCode:    "USD",
		PriceCategories: []string{"Goods"},
		TaxLocaleID:     []string{"US-TX"},
	}
	calc.On("Calculate", mock.Anything, expectedInput, []float64{0}, diag).
		Return(tax.StatusSuccess, nil, func(out []float64) { out[0] = 8.25 })

	r := newEngine(NewTaxHandler(calc, cfg))
	w, env := do(t, r, http.MethodPost, "/api/v1/tax/calculate", calculateBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var resp dto.CalculateTaxResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, []float64{8.25}, resp.TaxAmount)
	calc.AssertExpectations(t)
	cfg.AssertExpectations(t)
}

func TestTaxHandler_Calculate_ProviderFailure(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)
	cfg.On("DiagnosticsConfig", mock.Anything).Return(tax.DiagnosticsConfig{}, nil)
	calc.On("Calculate", mock.Anything, mock.Anything, []float64{3.5}, tax.DiagnosticsConfig{}).
		Return(tax.StatusFailure, tax.NewProviderError(tax.ProviderErrorUnavailable, "connection refused", nil), nil)

	r := newEngine(NewTaxHandler(calc, cfg))
	w, env := do(t, r, http.MethodPost, "/api/v1/tax/calculate",
		`{"order_id":"1001","tax_amount":[3.5]}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeProviderUnavailable, env.Error.Code)
	assert.NotEmpty(t, env.Error.RequestID)

	var resp dto.CalculateTaxResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 1, resp.Status)
	assert.Equal(t, []float64{3.5}, resp.TaxAmount)
}

func TestTaxHandler_Calculate_InternalErrorHidesCause(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)
	cfg.On("DiagnosticsConfig", mock.Anything).Return(tax.DiagnosticsConfig{}, nil)
	calc.On("Calculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(tax.StatusFailure, errors.New("secret detail"), nil)

	r := newEngine(NewTaxHandler(calc, cfg))
	w, env := do(t, r, http.MethodPost, "/api/v1/tax/calculate", `{"order_id":"1001","tax_amount":[0]}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, env.Error)
	assert.NotContains(t, env.Error.Message, "secret detail")
}

func TestTaxHandler_Calculate_EmptyOutput(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)
	cfg.On("DiagnosticsConfig", mock.Anything).Return(tax.DiagnosticsConfig{}, nil)
	calc.On("Calculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(tax.StatusFailure, tax.ErrInvalidTaxOutput, nil)

	r := newEngine(NewTaxHandler(calc, cfg))
	w, env := do(t, r, http.MethodPost, "/api/v1/tax/calculate", `{"order_id":"1001","tax_amount":[]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidTaxOutput, env.Error.Code)
}

func TestTaxHandler_Calculate_Validation(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)

	r := newEngine(NewTaxHandler(calc, cfg))
	w, env := do(t, r, http.MethodPost, "/api/v1/tax/calculate", `{"tax_amount":[0]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	calc.AssertNotCalled(t, "Calculate")
	cfg.AssertNotCalled(t, "DiagnosticsConfig")
}

func TestTaxHandler_Calculate_SettingsFailure(t *testing.T) {
	calc := new(MockTaxCalculator)
	cfg := new(MockConfigurator)
	cfg.On("DiagnosticsConfig", mock.Anything).Return(tax.DiagnosticsConfig{}, errors.New("db down"))

	r := newEngine(NewTaxHandler(calc, cfg))
	w, _ := do(t, r, http.MethodPost, "/api/v1/tax/calculate", calculateBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	calc.AssertNotCalled(t, "Calculate")
}
