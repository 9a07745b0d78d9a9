package models

import (
	"time"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// ModuleSettingModel is one key/value setting of a module
type ModuleSettingModel struct {
	Module    string    `gorm:"type:varchar(255);primaryKey"`
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ModuleSettingModel) TableName() string {
	return "module_settings"
}

// ModuleSettingsToDomain folds the rows of one module into settings
func ModuleSettingsToDomain(rows []ModuleSettingModel) tax.ModuleSettings {
	settings := make(tax.ModuleSettings, len(rows))
	for _, r := range rows {
		settings[r.Key] = r.Value
	}
	return settings
}

// ModuleSettingsFromDomain expands settings into rows
func ModuleSettingsFromDomain(module string, settings tax.ModuleSettings) []ModuleSettingModel {
	rows := make([]ModuleSettingModel, 0, len(settings))
	for k, v := range settings {
		rows = append(rows, ModuleSettingModel{Module: module, Key: k, Value: v})
	}
	return rows
}
