package diagnostics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
)

const (
	logDirName      = "Logs"
	logFilePrefix   = "Avalara_Extension_Log_File_"
	logFileSuffix   = ".txt"
	logDateLayout   = "01022006"    // MMddyyyy
	logTimeLayout   = "15:04:05 PM" // HH:mm:ss tt
	defaultStoreDir = "default"
)

// StoreNameResolver returns the display name of the current store.
type StoreNameResolver interface {
	StoreName(ctx context.Context) (string, error)
}

// FieldStoreName reads the store name from the host system properties.
type FieldStoreName struct {
	Reader tax.OrderFieldReader
}

// StoreName implements StoreNameResolver
func (f FieldStoreName) StoreName(ctx context.Context) (string, error) {
	v, err := f.Reader.GetValue(ctx, tax.FieldCategorySystemProperty, tax.SystemPropertyStorefrontName, "")
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// FileSinkConfig configures a FileSink
type FileSinkConfig struct {
	// BasePath is the deployments directory holding one folder per store
	BasePath string
	// FallbackStore is used when the store name cannot be resolved
	FallbackStore string
	// Resolver looks up the store name for every event, optional
	Resolver StoreNameResolver
	// Logger receives write failures
	Logger *zap.Logger
	// Now is the clock, defaults to time.Now
	Now func() time.Time
}

// FileSink appends one line per event to
// <base>/<store>/Logs/Avalara_Extension_Log_File_<MMddyyyy>.txt.
// Each line is a single O_APPEND write. Write failures are logged and dropped.
type FileSink struct {
	basePath      string
	fallbackStore string
	resolver      StoreNameResolver
	logger        *zap.Logger
	now           func() time.Time
}

// NewFileSink creates a file sink
func NewFileSink(cfg FileSinkConfig) *FileSink {
	s := &FileSink{
		basePath:      cfg.BasePath,
		fallbackStore: cfg.FallbackStore,
		resolver:      cfg.Resolver,
		logger:        cfg.Logger,
		now:           cfg.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.fallbackStore == "" {
		s.fallbackStore = defaultStoreDir
	}
	return s
}

// Record implements tax.DiagnosticsSink
func (s *FileSink) Record(ctx context.Context, event string) {
	now := s.now()
	path := s.Path(ctx, now)

	if err := appendLine(path, FormatLine(now, event)); err != nil {
		s.logger.Warn("Failed to write diagnostics log line",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// Path returns the log file used at time t.
func (s *FileSink) Path(ctx context.Context, t time.Time) string {
	return filepath.Join(s.basePath, s.storeDir(ctx), logDirName, LogFileName(t))
}

func (s *FileSink) storeDir(ctx context.Context) string {
	if s.resolver == nil {
		return sanitizeStoreName(s.fallbackStore)
	}
	name, err := s.resolver.StoreName(ctx)
	if err != nil {
		s.logger.Warn("Failed to resolve store name for diagnostics", zap.Error(err))
		return sanitizeStoreName(s.fallbackStore)
	}
	if name == "" {
		return sanitizeStoreName(s.fallbackStore)
	}
	return sanitizeStoreName(name)
}

// LogFileName returns the per-day file name for t.
func LogFileName(t time.Time) string {
	return logFilePrefix + t.Format(logDateLayout) + logFileSuffix
}

// FormatLine renders one diagnostics line including the trailing newline.
func FormatLine(t time.Time, event string) string {
	return fmt.Sprintf("Time: %s:  Message: %s\n", t.Format(logTimeLayout), singleLine(event))
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	_, werr := f.Write([]byte(line))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write log line: %w", werr)
	}
	return cerr
}

// sanitizeStoreName keeps a store name inside the base directory.
func sanitizeStoreName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return defaultStoreDir
	}
	return name
}
