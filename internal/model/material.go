package model

// Material is a raw material tracked by on-hand stock.
// Quantities are float64 because materials are measured in fractional
// units (meters of fabric, kg of thread).
type Material struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit        string  `gorm:"type:varchar(20)" json:"unit"`
	QtyOnHand   float64 `gorm:"default:0" json:"qty_on_hand"`
	SafetyStock float64 `gorm:"default:0" json:"safety_stock"`

	// Relasi
	ProductMaterials []ProductMaterial  `json:"product_materials,omitempty"`
	Movements        []MaterialMovement `json:"movements,omitempty"`
}
