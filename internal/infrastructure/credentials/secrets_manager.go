package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// ErrSecretEmpty is returned when the secret has no string value.
var ErrSecretEmpty = errors.New("credentials: secret has no string value")

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// avataxSecret is the JSON document stored in the secret
type avataxSecret struct {
	AccountID  string `json:"account_id"`
	LicenseKey string `json:"license_key"`
}

// SecretsManagerProvider reads the pair from AWS Secrets Manager on every call.
type SecretsManagerProvider struct {
	api      SecretsAPI
	secretID string
	logger   *zap.Logger
}

// NewSecretsManagerProvider creates a provider using the default AWS
// configuration chain (environment, shared config, IAM role).
// An empty region keeps the region resolved by that chain.
func NewSecretsManagerProvider(ctx context.Context, secretID, region string, logger *zap.Logger) (*SecretsManagerProvider, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewSecretsManagerProviderWithAPI(secretsmanager.NewFromConfig(cfg), secretID, logger), nil
}

// NewSecretsManagerProviderWithAPI creates a provider on an existing client
func NewSecretsManagerProviderWithAPI(api SecretsAPI, secretID string, logger *zap.Logger) *SecretsManagerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecretsManagerProvider{api: api, secretID: secretID, logger: logger}
}

// Credentials implements tax.CredentialProvider
func (p *SecretsManagerProvider) Credentials(ctx context.Context) (tax.Credentials, error) {
	out, err := p.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretID),
	})
	if err != nil {
		return tax.Credentials{}, fmt.Errorf("credentials: failed to fetch secret %s: %w", p.secretID, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return tax.Credentials{}, ErrSecretEmpty
	}

	var secret avataxSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &secret); err != nil {
		return tax.Credentials{}, fmt.Errorf("credentials: secret %s is not valid JSON: %w", p.secretID, err)
	}

	creds := tax.Credentials{AccountID: secret.AccountID, LicenseKey: secret.LicenseKey}
	if creds.IsZero() {
		return tax.Credentials{}, ErrCredentialsNotConfigured
	}

	p.logger.Debug("Fetched AvaTax credentials from Secrets Manager", zap.String("secret_id", p.secretID))
	return creds, nil
}
