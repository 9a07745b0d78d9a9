package dto

import (
	"net/http"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeNotFound   = "ERR_NOT_FOUND"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeTimeout         = "ERR_TIMEOUT"

	ErrCodeInvalidTaxOutput = "ERR_INVALID_TAX_OUTPUT"
	ErrCodeOrderFieldRead   = "ERR_ORDER_FIELD_READ"
	ErrCodeLineAmount       = "ERR_LINE_AMOUNT_UNAVAILABLE"

	ErrCodeProviderUnavailable     = "ERR_PROVIDER_UNAVAILABLE"
	ErrCodeProviderAuth            = "ERR_PROVIDER_AUTH"
	ErrCodeProviderRequestFailed   = "ERR_PROVIDER_REQUEST_FAILED"
	ErrCodeProviderInvalidResponse = "ERR_PROVIDER_INVALID_RESPONSE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:         http.StatusGatewayTimeout,

	ErrCodeInvalidTaxOutput: http.StatusBadRequest,
	ErrCodeOrderFieldRead:   http.StatusInternalServerError,
	ErrCodeLineAmount:       http.StatusUnprocessableEntity,

	// Provider failures are upstream failures
	ErrCodeProviderUnavailable:     http.StatusBadGateway,
	ErrCodeProviderAuth:            http.StatusBadGateway,
	ErrCodeProviderRequestFailed:   http.StatusBadGateway,
	ErrCodeProviderInvalidResponse: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ProviderErrorCode returns the error code for a provider error kind
func ProviderErrorCode(kind tax.ProviderErrorKind) string {
	switch kind {
	case tax.ProviderErrorUnavailable:
		return ErrCodeProviderUnavailable
	case tax.ProviderErrorAuth:
		return ErrCodeProviderAuth
	case tax.ProviderErrorRequestFailed:
		return ErrCodeProviderRequestFailed
	case tax.ProviderErrorInvalidResponse:
		return ErrCodeProviderInvalidResponse
	default:
		return ErrCodeInternal
	}
}
