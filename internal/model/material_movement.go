package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// Movement sources recorded in the audit trail
const (
	MovementSourceProduction = "production"
	MovementSourcePurchase   = "purchase"
	MovementSourceAdjustment = "adjustment"
)

// MaterialMovement is an append-only audit row for every stock change.
// Rows are never updated or merged.
type MaterialMovement struct {
	BaseModel
	MaterialID uuid.UUID    `gorm:"type:uuid;not null;index" json:"material_id" validate:"uuid_required"`
	Material   *Material    `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	OrderID    *uuid.UUID   `gorm:"type:uuid;index" json:"order_id,omitempty"` // nil for manual adjustments
	Type       MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Qty        float64      `gorm:"not null" json:"qty" validate:"required,gt=0"`
	Source     string       `gorm:"column:movement_source;type:varchar(50)" json:"movement_source"`
	Note       string       `gorm:"type:text" json:"note,omitempty"`
}
