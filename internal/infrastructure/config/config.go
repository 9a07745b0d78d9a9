package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Database    DatabaseConfig
	AvaTax      AvaTaxConfig
	Credentials CredentialsConfig
	LineAmount  LineAmountConfig
	Diagnostics DiagnosticsConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	RequestTimeout   time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// AvaTaxConfig holds the rating provider connection settings
type AvaTaxConfig struct {
	Environment  string        `toml:"environment" validate:"oneof=production sandbox"`
	CompanyCode  string        `toml:"company_code" validate:"required"`
	CustomerCode string        `toml:"customer_code"`
	AppName      string        `toml:"app_name" validate:"required"`
	AppVersion   string        `toml:"app_version" validate:"required"`
	MachineName  string        `toml:"machine_name"` // empty = os.Hostname
	BaseURL      string        `toml:"base_url" validate:"omitempty,url"`
	Timeout      time.Duration `toml:"timeout" validate:"gte=0"`
}

// CredentialsConfig selects where provider credentials come from.
// Values for the static source are expected from the environment
// (TAXBRIDGE_CREDENTIALS_ACCOUNT_ID, TAXBRIDGE_CREDENTIALS_LICENSE_KEY).
type CredentialsConfig struct {
	Source     string // static, secrets_manager
	AccountID  string
	LicenseKey string
	SecretID   string
	Region     string
}

// LineAmountConfig selects the amount placed on the single transaction line
type LineAmountConfig struct {
	Source string // taxable_amount, fixed
	Value  string // decimal, required for fixed
}

// DiagnosticsConfig holds the diagnostic log file settings
type DiagnosticsConfig struct {
	BasePath      string
	FallbackStore string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	ExportInterval    time.Duration
	LogsEnabled       bool
	LogsMinLevel      string
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
}

// Credential and line amount sources
const (
	CredentialSourceStatic         = "static"
	CredentialSourceSecretsManager = "secrets_manager"

	LineAmountSourceTaxableAmount = "taxable_amount"
	LineAmountSourceFixed         = "fixed"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with TAXBRIDGE_ prefix (e.g., TAXBRIDGE_AVATAX_COMPANY_CODE)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/taxbridge")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("TAXBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Version: v.GetString("app.version"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			RequestTimeout:   v.GetDuration("http.request_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		AvaTax: AvaTaxConfig{
			Environment:  v.GetString("avatax.environment"),
			CompanyCode:  v.GetString("avatax.company_code"),
			CustomerCode: v.GetString("avatax.customer_code"),
			AppName:      v.GetString("avatax.app_name"),
			AppVersion:   v.GetString("avatax.app_version"),
			MachineName:  v.GetString("avatax.machine_name"),
			BaseURL:      v.GetString("avatax.base_url"),
			Timeout:      v.GetDuration("avatax.timeout"),
		},
		Credentials: CredentialsConfig{
			Source:     v.GetString("credentials.source"),
			AccountID:  v.GetString("credentials.account_id"),
			LicenseKey: v.GetString("credentials.license_key"),
			SecretID:   v.GetString("credentials.secret_id"),
			Region:     v.GetString("credentials.region"),
		},
		LineAmount: LineAmountConfig{
			Source: v.GetString("line_amount.source"),
			Value:  v.GetString("line_amount.value"),
		},
		Diagnostics: DiagnosticsConfig{
			BasePath:      v.GetString("diagnostics.base_path"),
			FallbackStore: v.GetString("diagnostics.fallback_store"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			LogsMinLevel:      v.GetString("telemetry.logs_min_level"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	deriveDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults apply to every key not set in config.toml or the environment.
// No CORS origins are allowed unless configured.
var defaults = map[string]any{
	"app.name":    "taxbridge",
	"app.version": "1.0.0",
	"app.env":     "development",
	"app.port":    "8080",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      45 * time.Second,
	"http.idle_timeout":       time.Minute,
	"http.request_timeout":    40 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      1 << 20,
	"http.cors_allow_methods": []string{"GET", "POST", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "X-Request-ID"},

	"database.driver":             DriverPostgres,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.dbname":             "taxbridge",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "taxbridge.db",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"avatax.environment":   "sandbox",
	"avatax.company_code":  "DEFAULT",
	"avatax.customer_code": "DEFAULT",
	"avatax.timeout":       30 * time.Second,

	"credentials.source":         CredentialSourceStatic,
	"line_amount.source":         LineAmountSourceTaxableAmount,
	"diagnostics.base_path":      "./stores",
	"diagnostics.fallback_store": "default",

	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.export_interval":         time.Minute,
	"telemetry.logs_min_level":          "info",
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// deriveDefaults fills fields whose default depends on another field.
func deriveDefaults(cfg *Config) {
	if cfg.AvaTax.AppName == "" {
		cfg.AvaTax.AppName = cfg.App.Name
	}
	if cfg.AvaTax.AppVersion == "" {
		cfg.AvaTax.AppVersion = cfg.App.Version
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: database.driver must be postgres or sqlite, got %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("%w: database.max_open_conns must be positive", ErrInvalidConfig)
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("%w: database.max_idle_conns cannot be negative", ErrInvalidConfig)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("%w: database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			ErrInvalidConfig, c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if err := validateSection("avatax", c.AvaTax); err != nil {
		return err
	}

	switch c.Credentials.Source {
	case CredentialSourceStatic:
	case CredentialSourceSecretsManager:
		if c.Credentials.SecretID == "" {
			return fmt.Errorf("%w: credentials.secret_id is required for the secrets_manager source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: credentials.source must be static or secrets_manager, got %q", ErrInvalidConfig, c.Credentials.Source)
	}

	switch c.LineAmount.Source {
	case LineAmountSourceTaxableAmount:
	case LineAmountSourceFixed:
		if c.LineAmount.Value == "" {
			return fmt.Errorf("%w: line_amount.value is required for the fixed source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: line_amount.source must be taxable_amount or fixed, got %q", ErrInvalidConfig, c.LineAmount.Source)
	}

	if c.App.Env == "production" {
		if c.Database.Driver == DriverPostgres && c.Database.SSLMode == "disable" {
			return fmt.Errorf("%w: database.sslmode cannot be 'disable' in production", ErrInvalidConfig)
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("%w: cors_allow_origins cannot be '*' in production", ErrInvalidConfig)
			}
		}
		if c.AvaTax.Environment != "production" {
			return fmt.Errorf("%w: avatax.environment must be production when app.env is production", ErrInvalidConfig)
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("%w: telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", ErrInvalidConfig, c.Telemetry.SamplingRatio)
	}

	return nil
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, _, _ := strings.Cut(fld.Tag.Get("toml"), ","); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateSection runs the struct tag rules of one config section and reports
// the first failing key in section.key form.
func validateSection(section string, s any) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s.%s failed on %q (got %v)", ErrInvalidConfig, section, fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, section, err)
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
