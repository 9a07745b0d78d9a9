package tax

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Is(t *testing.T) {
	tests := []struct {
		kind     ProviderErrorKind
		sentinel error
	}{
		{ProviderErrorUnavailable, ErrProviderUnavailable},
		{ProviderErrorAuth, ErrProviderAuth},
		{ProviderErrorRequestFailed, ErrProviderRequestFailed},
		{ProviderErrorInvalidResponse, ErrProviderInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("rate: %w", NewProviderError(tt.kind, "boom", nil))

			assert.True(t, errors.Is(err, ErrProvider))
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, IsProviderError(err))
			assert.True(t, tt.kind.IsValid())
		})
	}
}

func TestProviderError_DoesNotMatchOtherKinds(t *testing.T) {
	err := NewProviderError(ProviderErrorAuth, "", nil)
	assert.False(t, errors.Is(err, ErrProviderUnavailable))
	assert.False(t, errors.Is(err, ErrInvalidTaxOutput))
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderError(ProviderErrorUnavailable, "", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestProviderError_Error(t *testing.T) {
	err := &ProviderError{
		Kind:       ProviderErrorRequestFailed,
		StatusCode: 400,
		Code:       "InvalidAddress",
		Message:    "The address is not deliverable.",
	}
	assert.Equal(t,
		"tax: rating provider REQUEST_FAILED (status 400): InvalidAddress: The address is not deliverable.",
		err.Error())
}

func TestIsProviderError(t *testing.T) {
	assert.False(t, IsProviderError(errors.New("other")))
	assert.False(t, IsProviderError(nil))

	var pe *ProviderError
	require.True(t, errors.As(fmt.Errorf("x: %w", NewProviderError(ProviderErrorAuth, "", nil)), &pe))
	assert.Equal(t, ProviderErrorAuth, pe.Kind)
}
