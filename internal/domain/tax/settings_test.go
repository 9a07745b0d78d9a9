package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleSettings_DiagnosticsConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings ModuleSettings
		expected bool
	}{
		{"nil", nil, false},
		{"missing", ModuleSettings{}, false},
		{"true", ModuleSettings{DebugModeKey: "true"}, true},
		{"false", ModuleSettings{DebugModeKey: "false"}, false},
		{"capitalised", ModuleSettings{DebugModeKey: "True"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.DiagnosticsConfig().DebugEnabled)
		})
	}
}

func TestModuleSettings_Clone(t *testing.T) {
	s := ModuleSettings{DebugModeKey: "true"}
	c := s.Clone()
	c[DebugModeKey] = "false"

	assert.Equal(t, "true", s.Get(DebugModeKey))
}
