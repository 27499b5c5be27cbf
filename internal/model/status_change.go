package model

import "github.com/google/uuid"

// StatusChange is an append-only audit row recording every order status
// transition, including automatic ones.
type StatusChange struct {
	BaseModel
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id" validate:"uuid_required"`
	OldStatus OrderStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus OrderStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy *uuid.UUID  `gorm:"type:uuid" json:"changed_by,omitempty"` // nil for public-link or system transitions
	Note      string      `gorm:"type:text" json:"note,omitempty"`
}
