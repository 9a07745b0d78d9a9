package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/persistence/models"
)

// GormOrderFieldRepository implements tax.OrderFieldReader over the
// order_fields table populated by the host.
type GormOrderFieldRepository struct {
	db *gorm.DB
}

// NewGormOrderFieldRepository creates a new GormOrderFieldRepository
func NewGormOrderFieldRepository(db *gorm.DB) *GormOrderFieldRepository {
	return &GormOrderFieldRepository{db: db}
}

// GetValue returns nil for a missing row or a NULL value
func (r *GormOrderFieldRepository) GetValue(ctx context.Context, category, name, orderID string) (*string, error) {
	var row models.OrderFieldModel
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND category = ? AND name = ?", orderID, category, name).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s for order %q: %w", category, name, orderID, err)
	}
	return row.Value, nil
}

// SetValue upserts one field; a nil value stores NULL
func (r *GormOrderFieldRepository) SetValue(ctx context.Context, category, name, orderID string, value *string) error {
	row := models.OrderFieldModel{
		OrderID:   orderID,
		Category:  category,
		Name:      name,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "category"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write %s/%s for order %q: %w", category, name, orderID, err)
	}
	return nil
}

var _ tax.OrderFieldReader = (*GormOrderFieldRepository)(nil)
