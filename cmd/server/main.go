package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	taxapp "github.com/taxbridge/backend/internal/application/tax"
	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/avatax"
	"github.com/taxbridge/backend/internal/infrastructure/config"
	"github.com/taxbridge/backend/internal/infrastructure/credentials"
	"github.com/taxbridge/backend/internal/infrastructure/diagnostics"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/infrastructure/persistence"
	"github.com/taxbridge/backend/internal/infrastructure/telemetry"
	"github.com/taxbridge/backend/internal/interfaces/http/handler"
	"github.com/taxbridge/backend/internal/interfaces/http/middleware"
	"github.com/taxbridge/backend/internal/interfaces/http/router"
)

//	@title			Taxbridge API
//	@version		1.0
//	@description	Storefront tax rating adapter backed by AvaTax
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(baseLog)
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		TracesEnabled:     cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		LogsMinLevel:      logger.ParseLevel(cfg.Telemetry.LogsMinLevel),
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.Logger(baseLog)

	log.Info("Starting taxbridge",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("avatax_env", cfg.AvaTax.Environment),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      cfg.Log.Level,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		TraceEnabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	// Postgres schemas are owned by cmd/migrate.
	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	settingsRepo := persistence.NewGormModuleSettingsRepository(db.DB)
	fieldRepo := persistence.NewGormOrderFieldRepository(db.DB)

	meter := providers.Meter("taxbridge")
	var taxMetrics *telemetry.TaxMetrics
	if meter != nil {
		if taxMetrics, err = telemetry.NewTaxMetrics(meter); err != nil {
			log.Warn("Tax metrics disabled", zap.Error(err))
			taxMetrics = nil
		}
	}

	creds, err := newCredentialProvider(ctx, &cfg.Credentials, log)
	if err != nil {
		log.Fatal("Failed to initialize credentials", zap.Error(err))
	}

	avaCfg, err := avatax.NewConfigBuilder().
		SetEnvironment(avatax.Environment(cfg.AvaTax.Environment)).
		SetCompanyCode(cfg.AvaTax.CompanyCode).
		SetCustomerCode(cfg.AvaTax.CustomerCode).
		SetApp(cfg.AvaTax.AppName, cfg.AvaTax.AppVersion).
		SetMachineName(cfg.AvaTax.MachineName).
		SetBaseURL(cfg.AvaTax.BaseURL).
		SetTimeout(cfg.AvaTax.Timeout).
		Build()
	if err != nil {
		log.Fatal("Invalid AvaTax configuration", zap.Error(err))
	}
	client, err := avatax.NewClient(avaCfg, creds,
		avatax.WithLogger(log),
		avatax.WithMetrics(taxMetrics),
	)
	if err != nil {
		log.Fatal("Failed to create AvaTax client", zap.Error(err))
	}

	sink := diagnostics.NewFanOutSink(
		diagnostics.NewHostChannelSink(log),
		diagnostics.NewFileSink(diagnostics.FileSinkConfig{
			BasePath:      cfg.Diagnostics.BasePath,
			FallbackStore: cfg.Diagnostics.FallbackStore,
			Resolver:      diagnostics.FieldStoreName{Reader: fieldRepo},
			Logger:        log,
		}),
	)

	lineAmount, err := newLineAmountSource(&cfg.LineAmount)
	if err != nil {
		log.Fatal("Invalid line amount configuration", zap.Error(err))
	}

	calcService := taxapp.NewCalculationService(fieldRepo, lineAmount, client, sink, log,
		taxapp.WithMetrics(taxMetrics),
	)
	configService := taxapp.NewConfigurationService(settingsRepo, log)

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.TracingEnabled(),
		Meter:          meter,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS: middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		},
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(systemHandler).
		Register(handler.NewModuleHandler()).
		Register(handler.NewConfigurationHandler(configService)).
		Register(handler.NewTaxHandler(calcService, configService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	_ = providers.Shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

// newCredentialProvider builds the AvaTax credential chain. With the
// secrets_manager source, statically configured credentials act as fallback.
func newCredentialProvider(ctx context.Context, cfg *config.CredentialsConfig, log *zap.Logger) (tax.CredentialProvider, error) {
	static := credentials.NewStaticProvider(cfg.AccountID, cfg.LicenseKey)
	if cfg.Source != config.CredentialSourceSecretsManager {
		return static, nil
	}

	sm, err := credentials.NewSecretsManagerProvider(ctx, cfg.SecretID, cfg.Region, log)
	if err != nil {
		return nil, err
	}
	return &credentials.FallbackProvider{Primary: sm, Fallback: static, Logger: log}, nil
}

func newLineAmountSource(cfg *config.LineAmountConfig) (tax.LineAmountSource, error) {
	if cfg.Source == config.LineAmountSourceFixed {
		src, err := taxapp.NewFixedLineAmountSource(cfg.Value)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return taxapp.TaxableAmountSource{}, nil
}
