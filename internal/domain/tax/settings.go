package tax

import (
	"context"
	"errors"
)

// DebugModeKey is the module setting that turns diagnostics on.
const DebugModeKey = "SaDebuggingMode"

// Debug mode values
const (
	DebugModeOn  = "true"
	DebugModeOff = "false"
)

// ModuleParameters lists the settings the module reads from the host.
var ModuleParameters = []string{DebugModeKey}

// ErrSettingsNotFound is returned when no settings were ever saved for a module.
var ErrSettingsNotFound = errors.New("tax: module settings not found")

// ModuleSettings is the host key/value configuration of one module
type ModuleSettings map[string]string

// Get returns a setting, or "" when it is not set
func (s ModuleSettings) Get(key string) string {
	if s == nil {
		return ""
	}
	return s[key]
}

// DiagnosticsConfig returns the diagnostics switch derived from the settings.
// Only the exact value "true" enables diagnostics.
func (s ModuleSettings) DiagnosticsConfig() DiagnosticsConfig {
	return DiagnosticsConfig{DebugEnabled: s.Get(DebugModeKey) == DebugModeOn}
}

// Clone returns an independent copy
func (s ModuleSettings) Clone() ModuleSettings {
	out := make(ModuleSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DiagnosticsConfig is read once per invocation and passed to the calculation.
type DiagnosticsConfig struct {
	DebugEnabled bool
}

// SettingsRepository persists module settings keyed by module unique name.
type SettingsRepository interface {
	// Load returns ErrSettingsNotFound when nothing was saved yet.
	Load(ctx context.Context, module string) (ModuleSettings, error)
	Save(ctx context.Context, module string, settings ModuleSettings) error
}
