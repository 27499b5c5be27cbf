package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderLink is a time-limited tokenized link that lets a tailor submit
// progress reports for one order without logging in. The token is
// crypto-random and must stay unguessable.
type OrderLink struct {
	BaseModel
	OrderID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id" validate:"uuid_required"`
	Order    *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	UserID   *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"` // nil for fully public links
	Token    string     `gorm:"type:varchar(128);uniqueIndex;not null" json:"token"`
	ExpireAt time.Time  `gorm:"not null" json:"expire_at"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
}

// IsUsable reports whether the link can still grant access at the given time
func (l *OrderLink) IsUsable(now time.Time) bool {
	return l.IsActive && now.Before(l.ExpireAt)
}
