package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

// Order status values. These strings are stored in existing rows and
// must stay exactly as-is.
const (
	StatusCreated      OrderStatus = "created"
	StatusNeedMaterial OrderStatus = "need material"
	StatusConfirmed    OrderStatus = "confirmed"
	StatusProcessing   OrderStatus = "processing"
	StatusCompleted    OrderStatus = "completed"
	StatusShipped      OrderStatus = "shipped"
	StatusDelivered    OrderStatus = "delivered"
	StatusCancelled    OrderStatus = "cancelled"
)

// AllOrderStatuses lists every valid status for enum validation
var AllOrderStatuses = []OrderStatus{
	StatusCreated, StatusNeedMaterial, StatusConfirmed, StatusProcessing,
	StatusCompleted, StatusShipped, StatusDelivered, StatusCancelled,
}

// IsValid reports whether the status is one of the enumerated set
func (s OrderStatus) IsValid() bool {
	for _, v := range AllOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Order struct {
	BaseModel
	OrderNumber  string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number" validate:"required"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	TargetPcs    int         `gorm:"not null" json:"target_pcs" validate:"required,gt=0"`
	CompletedPcs int         `gorm:"default:0" json:"completed_pcs"`
	Priority     int         `gorm:"default:0" json:"priority"`
	DueDate      *time.Time  `gorm:"type:date" json:"due_date,omitempty"`
	Note         string      `gorm:"type:text" json:"note,omitempty"`

	// The assigned tailor: either an account in the system or an
	// external contact. Both are optional.
	TailorID        *uuid.UUID `gorm:"type:uuid;index" json:"tailor_id,omitempty"`
	Tailor          *User      `gorm:"foreignKey:TailorID" json:"tailor,omitempty"`
	TailorContactID *uuid.UUID `gorm:"type:uuid;index" json:"tailor_contact_id,omitempty"`
	TailorContact   *Contact   `gorm:"foreignKey:TailorContactID" json:"tailor_contact,omitempty"`

	// Relasi
	Products        []OrderProduct     `json:"products,omitempty"`
	ProgressReports []ProgressReport   `json:"progress_reports,omitempty"`
	StatusChanges   []StatusChange     `json:"status_changes,omitempty"`
	Movements       []MaterialMovement `json:"movements,omitempty"`
	Links           []OrderLink        `json:"links,omitempty"`
}

// OrderProduct is one line item of an order
type OrderProduct struct {
	BaseModel
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id" validate:"uuid_required"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product        *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Qty            int        `gorm:"not null" json:"qty" validate:"required,gt=0"`
	CompletedQty   int        `gorm:"default:0" json:"completed_qty"`
	IsCompleted    bool       `gorm:"default:false" json:"is_completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}
