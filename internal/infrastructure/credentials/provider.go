// Package credentials resolves the AvaTax account/license pair.
package credentials

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// ErrCredentialsNotConfigured is returned when a provider has no usable pair.
var ErrCredentialsNotConfigured = errors.New("credentials: account ID and license key are not configured")

// StaticProvider returns a fixed pair loaded from configuration or environment.
type StaticProvider struct {
	creds tax.Credentials
}

// NewStaticProvider creates a provider for a fixed pair
func NewStaticProvider(accountID, licenseKey string) *StaticProvider {
	return &StaticProvider{creds: tax.Credentials{AccountID: accountID, LicenseKey: licenseKey}}
}

// Credentials implements tax.CredentialProvider
func (p *StaticProvider) Credentials(context.Context) (tax.Credentials, error) {
	if p.creds.IsZero() {
		return tax.Credentials{}, ErrCredentialsNotConfigured
	}
	return p.creds, nil
}

// FallbackProvider asks Primary first and uses Fallback when Primary fails.
type FallbackProvider struct {
	Primary  tax.CredentialProvider
	Fallback tax.CredentialProvider
	Logger   *zap.Logger
}

// Credentials implements tax.CredentialProvider
func (p *FallbackProvider) Credentials(ctx context.Context) (tax.Credentials, error) {
	creds, err := p.Primary.Credentials(ctx)
	if err == nil {
		return creds, nil
	}

	if p.Logger != nil {
		p.Logger.Warn("Primary credential provider failed, falling back", zap.Error(err))
	}
	if p.Fallback == nil {
		return tax.Credentials{}, err
	}

	creds, ferr := p.Fallback.Credentials(ctx)
	if ferr != nil {
		return tax.Credentials{}, errors.Join(err, ferr)
	}
	return creds, nil
}
