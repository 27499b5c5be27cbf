package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Code      string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	QtyOnHand int     `gorm:"default:0" json:"qty_on_hand"`
	Unit      string  `gorm:"type:varchar(20)" json:"unit"`
	Price     int64   `gorm:"default:0" json:"price"`

	// Optional base material (single main fabric); full consumption
	// rates live in the bill of materials below.
	MaterialID *uuid.UUID `gorm:"type:uuid" json:"material_id,omitempty"`
	Material   *Material  `gorm:"foreignKey:MaterialID" json:"material,omitempty"`

	// Relasi
	BillOfMaterials []ProductMaterial `json:"bill_of_materials,omitempty"`
	Photos          []ProductPhoto    `json:"photos,omitempty"`
	OrderProducts   []OrderProduct    `json:"order_products,omitempty"`
}

// ProductMaterial is one bill-of-materials row: how much of a material
// one piece of the product consumes.
type ProductMaterial struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index" json:"material_id" validate:"uuid_required"`
	QtyNeeded  float64   `gorm:"not null" json:"qty_needed" validate:"gte=0"` // per piece produced

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

// ProductPhoto stores opaque URLs returned by the file-storage service.
// Image content is never validated here.
type ProductPhoto struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	PhotoURL     string    `gorm:"type:text;not null" json:"photo_url" validate:"required"`
	ThumbnailURL string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
}
