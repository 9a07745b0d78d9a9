package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/persistence/models"
)

// GormModuleSettingsRepository implements tax.SettingsRepository using GORM
type GormModuleSettingsRepository struct {
	db *gorm.DB
}

// NewGormModuleSettingsRepository creates a new GormModuleSettingsRepository
func NewGormModuleSettingsRepository(db *gorm.DB) *GormModuleSettingsRepository {
	return &GormModuleSettingsRepository{db: db}
}

// Load returns tax.ErrSettingsNotFound when the module has no rows
func (r *GormModuleSettingsRepository) Load(ctx context.Context, module string) (tax.ModuleSettings, error) {
	var rows []models.ModuleSettingModel
	if err := r.db.WithContext(ctx).
		Where("module = ?", module).
		Order("key").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load settings for %s: %w", module, err)
	}
	if len(rows) == 0 {
		return nil, tax.ErrSettingsNotFound
	}
	return models.ModuleSettingsToDomain(rows), nil
}

// Save replaces the settings of module: keys missing from settings are removed.
func (r *GormModuleSettingsRepository) Save(ctx context.Context, module string, settings tax.ModuleSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("module = ?", module)
		if len(settings) > 0 {
			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			del = del.Where("key NOT IN ?", keys)
		}
		if err := del.Delete(&models.ModuleSettingModel{}).Error; err != nil {
			return fmt.Errorf("delete stale settings for %s: %w", module, err)
		}

		if len(settings) == 0 {
			return nil
		}

		rows := models.ModuleSettingsFromDomain(module, settings)
		now := time.Now()
		for i := range rows {
			rows[i].CreatedAt = now
			rows[i].UpdatedAt = now
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "module"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("save settings for %s: %w", module, err)
		}
		return nil
	})
}
