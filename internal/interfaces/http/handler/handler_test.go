package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockTaxCalculator struct {
	mock.Mock
}

func (m *MockTaxCalculator) Calculate(ctx context.Context, in tax.CalculationInput, taxAmount []float64, diag tax.DiagnosticsConfig) (tax.StatusCode, error) {
	args := m.Called(ctx, in, taxAmount, diag)
	if fn, ok := args.Get(2).(func([]float64)); ok && fn != nil {
		fn(taxAmount)
	}
	return args.Get(0).(tax.StatusCode), args.Error(1)
}

type MockConfigurator struct {
	mock.Mock
}

func (m *MockConfigurator) Settings(ctx context.Context) (tax.ModuleSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(tax.ModuleSettings)
	return s, args.Error(1)
}

func (m *MockConfigurator) DiagnosticsConfig(ctx context.Context) (tax.DiagnosticsConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(tax.DiagnosticsConfig), args.Error(1)
}

func (m *MockConfigurator) GetConfigurationHTML(ctx context.Context, params map[string]string) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func newEngine(registrars ...interface{ RegisterRoutes(*gin.RouterGroup) }) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	for _, reg := range registrars {
		reg.RegisterRoutes(api)
	}
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unavailable", tax.NewProviderError(tax.ProviderErrorUnavailable, "down", nil), "ERR_PROVIDER_UNAVAILABLE"},
		{"auth", tax.NewProviderError(tax.ProviderErrorAuth, "401", nil), "ERR_PROVIDER_AUTH"},
		{"request failed", tax.NewProviderError(tax.ProviderErrorRequestFailed, "400", nil), "ERR_PROVIDER_REQUEST_FAILED"},
		{"invalid response", tax.NewProviderError(tax.ProviderErrorInvalidResponse, "bad json", nil), "ERR_PROVIDER_INVALID_RESPONSE"},
		{"invalid output", tax.ErrInvalidTaxOutput, "ERR_INVALID_TAX_OUTPUT"},
		{"field read", errors.Join(tax.ErrOrderFieldRead, errors.New("db down")), "ERR_ORDER_FIELD_READ"},
		{"line amount", tax.ErrLineAmountUnavailable, "ERR_LINE_AMOUNT_UNAVAILABLE"},
		{"unknown", errors.New("boom"), "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
