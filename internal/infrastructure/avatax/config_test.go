package avatax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AppName:      "taxbridge",
		AppVersion:   "1.0",
		MachineName:  "web-01",
		Environment:  EnvironmentSandbox,
		CompanyCode:  "DEFAULT",
		CustomerCode: "STOREFRONT",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"missing app name", func(c *Config) { c.AppName = "" }, ErrMissingAppName},
		{"missing app version", func(c *Config) { c.AppVersion = "" }, ErrMissingAppVersion},
		{"missing machine name", func(c *Config) { c.MachineName = "" }, ErrMissingMachineName},
		{"invalid environment", func(c *Config) { c.Environment = "staging" }, ErrInvalidEnvironment},
		{"missing company code", func(c *Config) { c.CompanyCode = "" }, ErrMissingCompanyCode},
		{"missing customer code", func(c *Config) { c.CustomerCode = "" }, ErrMissingCustomerCode},
		{"relative base URL", func(c *Config) { c.BaseURL = "/api" }, ErrInvalidBaseURL},
		{"absolute base URL", func(c *Config) { c.BaseURL = "http://localhost:8089" }, nil},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://sandbox-rest.avatax.com", cfg.endpoint())

	cfg.Environment = EnvironmentProduction
	assert.Equal(t, "https://rest.avatax.com", cfg.endpoint())

	cfg.BaseURL = "http://localhost:9000"
	assert.Equal(t, "http://localhost:9000", cfg.endpoint())
}

func TestConfig_Timeout(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, DefaultTimeout, cfg.timeout())

	cfg.Timeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, cfg.timeout())
}

func TestConfigBuilder(t *testing.T) {
	cfg, err := NewConfigBuilder().
		SetApp("taxbridge", "2.1").
		SetMachineName("web-02").
		SetEnvironment(EnvironmentSandbox).
		SetCompanyCode("ACME").
		SetCustomerCode("CUST").
		SetTimeout(10 * time.Second).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "taxbridge", cfg.AppName)
	assert.Equal(t, "2.1", cfg.AppVersion)
	assert.Equal(t, "web-02", cfg.MachineName)
	assert.Equal(t, EnvironmentSandbox, cfg.Environment)
	assert.Equal(t, "ACME", cfg.CompanyCode)
	assert.Equal(t, "CUST", cfg.CustomerCode)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestConfigBuilder_Invalid(t *testing.T) {
	_, err := NewConfigBuilder().SetApp("taxbridge", "1.0").Build()
	assert.ErrorIs(t, err, ErrMissingCompanyCode)
}

func TestConfigBuilder_DefaultsToProduction(t *testing.T) {
	b := NewConfigBuilder()
	assert.Equal(t, EnvironmentProduction, b.config.Environment)
}
