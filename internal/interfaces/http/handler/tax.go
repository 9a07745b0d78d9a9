package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// TaxCalculator runs one tax calculation
type TaxCalculator interface {
	Calculate(ctx context.Context, in tax.CalculationInput, taxAmount []float64, diag tax.DiagnosticsConfig) (tax.StatusCode, error)
}

// DiagnosticsSource supplies the diagnostics switch for an invocation
type DiagnosticsSource interface {
	DiagnosticsConfig(ctx context.Context) (tax.DiagnosticsConfig, error)
}

// TaxHandler handles tax calculation requests
type TaxHandler struct {
	BaseHandler
	calculator  TaxCalculator
	diagnostics DiagnosticsSource
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(calculator TaxCalculator, diagnostics DiagnosticsSource) *TaxHandler {
	return &TaxHandler{
		calculator:  calculator,
		diagnostics: diagnostics,
	}
}

// RegisterRoutes registers the tax routes
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tax/calculate", h.Calculate)
}

// Calculate godoc
// @Summary      Calculate tax for an order
// @Description  Rates the order against the tax provider and writes the result to tax_amount[0]
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        request body dto.CalculateTaxRequest true "Calculation input"
// @Success      200 {object} dto.Response{data=dto.CalculateTaxResponse}
// @Failure      400 {object} dto.Response
// @Failure      502 {object} dto.Response{data=dto.CalculateTaxResponse}
// @Router       /tax/calculate [post]
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req dto.CalculateTaxRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	diag, err := h.diagnostics.DiagnosticsConfig(ctx)
	if err != nil {
		h.InternalError(c, err)
		return
	}

	in := tax.CalculationInput{
		OrderID:         req.OrderID,
		TaxableAmount:   req.TaxableAmount,
		CurrencyCode:    req.CurrencyCode,
		PriceCategories: req.PriceCategories,
		PriceTaxLocales: req.PriceTaxLocales,
		PriceAmount:     req.PriceAmount,
		TaxLocaleID:     req.TaxLocaleID,
	}

	taxAmount := req.TaxAmount
	status, err := h.calculator.Calculate(ctx, in, taxAmount, diag)
	if err == nil {
		h.Success(c, dto.CalculateTaxResponse{Status: int(status), TaxAmount: taxAmount})
		return
	}

	if errors.Is(err, tax.ErrInvalidTaxOutput) {
		h.Error(c, dto.ErrCodeInvalidTaxOutput, err.Error())
		return
	}

	// The host still needs its untouched output array and the failure status.
	code := ErrorCode(err)
	resp := dto.NewErrorResponseWithRequestID(code, err.Error(), getRequestID(c))
	resp.Data = dto.CalculateTaxResponse{Status: int(status), TaxAmount: taxAmount}
	if code == dto.ErrCodeInternal {
		logger.L(ctx).Error("Tax calculation error", zap.Error(err))
		resp.Error.Message = "An internal error occurred"
	}
	c.JSON(dto.GetHTTPStatus(code), resp)
}
