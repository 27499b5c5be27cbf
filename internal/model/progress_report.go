package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressReport is an append-only event: pieces finished for an order,
// reported by a logged-in tailor or anonymously through a public link.
// Immutable once created.
type ProgressReport struct {
	BaseModel
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id" validate:"uuid_required"`
	OrderProductID *uuid.UUID `gorm:"type:uuid;index" json:"order_product_id,omitempty"`

	// Reporter identity. UserID is nil for public-link submissions;
	// TailorName carries the display name given on the form instead.
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TailorName string     `gorm:"type:varchar(255)" json:"tailor_name,omitempty"`

	PcsFinished int       `gorm:"not null" json:"pcs_finished" validate:"required,gt=0"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url,omitempty"` // opaque, from file storage
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	ViaLink     bool      `gorm:"default:false" json:"via_link"`
	ReportedAt  time.Time `gorm:"not null" json:"reported_at"`
}
