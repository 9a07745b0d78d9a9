package models

import "time"

// OrderFieldModel is one field value published by the host.
// System properties use an empty OrderID.
type OrderFieldModel struct {
	OrderID   string    `gorm:"type:varchar(64);primaryKey;default:''"`
	Category  string    `gorm:"type:varchar(64);primaryKey"`
	Name      string    `gorm:"type:varchar(128);primaryKey"`
	Value     *string   `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderFieldModel) TableName() string {
	return "order_fields"
}
