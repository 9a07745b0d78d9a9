// Package handler implements the HTTP handlers of the tax adapter API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/interfaces/http/dto"
	"github.com/taxbridge/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct{}

// Success sends a successful response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the status derived from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 Bad Request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 Not Found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 response without leaking the cause
func (h *BaseHandler) InternalError(c *gin.Context, err error) {
	logger.L(c.Request.Context()).Error("Request failed", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An internal error occurred")
}

// BindJSON binds the request body and answers validation failures.
// It returns false when a response was already written.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ErrorCode maps a tax error to its API error code
func ErrorCode(err error) string {
	var pe *tax.ProviderError
	switch {
	case errors.As(err, &pe):
		return dto.ProviderErrorCode(pe.Kind)
	case errors.Is(err, tax.ErrInvalidTaxOutput):
		return dto.ErrCodeInvalidTaxOutput
	case errors.Is(err, tax.ErrOrderFieldRead):
		return dto.ErrCodeOrderFieldRead
	case errors.Is(err, tax.ErrLineAmountUnavailable):
		return dto.ErrCodeLineAmount
	default:
		return dto.ErrCodeInternal
	}
}

// HandleError maps a tax error to an error response.
// Internal errors are logged and answered with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	code := ErrorCode(err)
	if code == dto.ErrCodeInternal {
		h.InternalError(c, err)
		return
	}
	h.Error(c, code, err.Error())
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}
