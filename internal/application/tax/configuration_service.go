package tax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
)

var configurationTemplate = template.Must(template.New("configuration").Parse(
	`<div class="sconfig-header"><h2>{{.DisplayName}}</h2></div>
<table class="sconfig-services">
<tr><td class="sconfig-label">Debugging Information</td><td><input type="hidden" name="{{.Key}}" value="{{.Off}}"><input type="checkbox" name="{{.Key}}" value="{{.On}}"{{if .Checked}} checked{{end}}></td></tr>
<tr><td colspan="2" class="sconfig-tip">This box should be checked if you wish for debugging information to be output to the Logs.</td></tr>
</table>
<div class="sconfig-footer"></div>
`))

type configurationView struct {
	DisplayName string
	Key         string
	On          string
	Off         string
	Checked     bool
}

// ConfigurationService manages the module settings the host edits through
// its configuration page.
type ConfigurationService struct {
	repo   tax.SettingsRepository
	module string
	logger *zap.Logger
}

// NewConfigurationService creates a new ConfigurationService
func NewConfigurationService(repo tax.SettingsRepository, logger *zap.Logger) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{
		repo:   repo,
		module: tax.ModuleUniqueName,
		logger: logger,
	}
}

// Settings returns the stored settings, or empty settings when none were
// saved yet.
func (s *ConfigurationService) Settings(ctx context.Context) (tax.ModuleSettings, error) {
	settings, err := s.repo.Load(ctx, s.module)
	if errors.Is(err, tax.ErrSettingsNotFound) {
		return tax.ModuleSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load module settings: %w", err)
	}
	return settings, nil
}

// DiagnosticsConfig reads the diagnostics switch for one invocation.
// Missing settings mean diagnostics are off.
func (s *ConfigurationService) DiagnosticsConfig(ctx context.Context) (tax.DiagnosticsConfig, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return tax.DiagnosticsConfig{}, err
	}
	return settings.DiagnosticsConfig(), nil
}

// GetConfigurationHTML renders the configuration form when params is nil.
// Otherwise the recognised params are saved and "" is returned.
func (s *ConfigurationService) GetConfigurationHTML(ctx context.Context, params map[string]string) (string, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return "", err
	}

	if params == nil {
		var buf bytes.Buffer
		err := configurationTemplate.Execute(&buf, configurationView{
			DisplayName: tax.ModuleDisplayName,
			Key:         tax.DebugModeKey,
			On:          tax.DebugModeOn,
			Off:         tax.DebugModeOff,
			Checked:     settings.DiagnosticsConfig().DebugEnabled,
		})
		if err != nil {
			return "", fmt.Errorf("render configuration: %w", err)
		}
		return buf.String(), nil
	}

	updated := settings.Clone()
	for _, key := range tax.ModuleParameters {
		if v, ok := params[key]; ok {
			updated[key] = v
		}
	}
	if err := s.repo.Save(ctx, s.module, updated); err != nil {
		return "", fmt.Errorf("save module settings: %w", err)
	}

	s.logger.Info("Module settings saved",
		zap.String("module", s.module),
		zap.Bool("debug_enabled", updated.DiagnosticsConfig().DebugEnabled),
	)
	return "", nil
}
