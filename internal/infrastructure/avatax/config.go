package avatax

import (
	"errors"
	"net/url"
	"os"
	"time"
)

// Environment selects the AvaTax endpoint
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentSandbox    Environment = "sandbox"
)

// IsValid returns true if the environment is known
func (e Environment) IsValid() bool {
	switch e {
	case EnvironmentProduction, EnvironmentSandbox:
		return true
	default:
		return false
	}
}

// BaseURL returns the REST endpoint of the environment
func (e Environment) BaseURL() string {
	if e == EnvironmentSandbox {
		return sandboxBaseURL
	}
	return productionBaseURL
}

const (
	productionBaseURL = "https://rest.avatax.com"
	sandboxBaseURL    = "https://sandbox-rest.avatax.com"

	// DefaultTimeout bounds the single provider round trip.
	DefaultTimeout = 30 * time.Second
)

// Config contains the AvaTax client identity and transaction defaults.
// Credentials are not part of Config; they come from a CredentialProvider.
type Config struct {
	// AppName identifies the calling application in X-Avalara-Client
	AppName string
	// AppVersion is the calling application version
	AppVersion string
	// MachineName is the originating host, defaults to os.Hostname
	MachineName string
	// Environment is production or sandbox
	Environment Environment
	// CompanyCode is the AvaTax company the transaction is recorded against
	CompanyCode string
	// CustomerCode is the AvaTax customer code sent with every transaction
	CustomerCode string
	// BaseURL overrides the environment endpoint
	BaseURL string
	// Timeout bounds one request, zero means DefaultTimeout
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrMissingAppName      = errors.New("avatax: missing application name")
	ErrMissingAppVersion   = errors.New("avatax: missing application version")
	ErrMissingMachineName  = errors.New("avatax: missing machine name")
	ErrInvalidEnvironment  = errors.New("avatax: environment must be production or sandbox")
	ErrMissingCompanyCode  = errors.New("avatax: missing company code")
	ErrMissingCustomerCode = errors.New("avatax: missing customer code")
	ErrInvalidBaseURL      = errors.New("avatax: invalid base URL")
	ErrInvalidTimeout      = errors.New("avatax: timeout must not be negative")
	ErrMissingConfig       = errors.New("avatax: missing configuration")
	ErrMissingCredentials  = errors.New("avatax: missing credential provider")
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AppName == "" {
		return ErrMissingAppName
	}
	if c.AppVersion == "" {
		return ErrMissingAppVersion
	}
	if c.MachineName == "" {
		return ErrMissingMachineName
	}
	if !c.Environment.IsValid() {
		return ErrInvalidEnvironment
	}
	if c.CompanyCode == "" {
		return ErrMissingCompanyCode
	}
	if c.CustomerCode == "" {
		return ErrMissingCustomerCode
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidBaseURL
		}
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func (c *Config) endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Environment.BaseURL()
}

func (c *Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// ConfigBuilder helps build Config
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a builder with production defaults and the local hostname
func NewConfigBuilder() *ConfigBuilder {
	b := &ConfigBuilder{config: Config{Environment: EnvironmentProduction}}
	if host, err := os.Hostname(); err == nil {
		b.config.MachineName = host
	}
	return b
}

// SetApp sets the application name and version
func (b *ConfigBuilder) SetApp(name, version string) *ConfigBuilder {
	b.config.AppName = name
	b.config.AppVersion = version
	return b
}

// SetMachineName overrides the originating host name
func (b *ConfigBuilder) SetMachineName(name string) *ConfigBuilder {
	if name != "" {
		b.config.MachineName = name
	}
	return b
}

// SetEnvironment sets the target environment
func (b *ConfigBuilder) SetEnvironment(env Environment) *ConfigBuilder {
	b.config.Environment = env
	return b
}

// SetCompanyCode sets the company code
func (b *ConfigBuilder) SetCompanyCode(code string) *ConfigBuilder {
	b.config.CompanyCode = code
	return b
}

// SetCustomerCode sets the customer code
func (b *ConfigBuilder) SetCustomerCode(code string) *ConfigBuilder {
	b.config.CustomerCode = code
	return b
}

// SetBaseURL overrides the environment endpoint
func (b *ConfigBuilder) SetBaseURL(u string) *ConfigBuilder {
	b.config.BaseURL = u
	return b
}

// SetTimeout sets the request timeout
func (b *ConfigBuilder) SetTimeout(d time.Duration) *ConfigBuilder {
	b.config.Timeout = d
	return b
}

// Build builds the config and validates it
func (b *ConfigBuilder) Build() (*Config, error) {
	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
