package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taxbridge/backend/internal/infrastructure/config"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/infrastructure/persistence/models"
)

// Database is the GORM handle shared by the repositories.
type Database struct {
	DB     *gorm.DB
	driver string
}

// Options tunes statement logging and tracing.
type Options struct {
	Logger        *zap.Logger
	LogLevel      string // silent, error, warn, info
	SlowThreshold time.Duration
	TraceEnabled  bool
}

// NewDatabase opens the configured database (postgres or sqlite), sizes
// its pool and verifies the connection.
func NewDatabase(cfg *config.DatabaseConfig, opts Options) (*Database, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	gdb, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.GormLevel(opts.LogLevel), opts.SlowThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != config.DriverSQLite,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if opts.TraceEnabled {
		plugin := otelgorm.NewPlugin(otelgorm.WithDBName(cfg.DBName), otelgorm.WithoutQueryVariables())
		if err := gdb.Use(plugin); err != nil {
			return nil, fmt.Errorf("install tracing plugin: %w", err)
		}
	}

	d := &Database{DB: gdb, driver: cfg.Driver}
	pool, err := d.pool()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return d, nil
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

func (d *Database) pool() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql.DB: %w", err)
	}
	return pool, nil
}

// AutoMigrate creates the adapter tables from the GORM models. Only sqlite
// uses it; postgres schemas come from cmd/migrate.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(&models.ModuleSettingModel{}, &models.OrderFieldModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Driver is either config.DriverPostgres or config.DriverSQLite.
func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping backs the /health endpoint.
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}
