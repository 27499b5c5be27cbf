package model

// Contact is an external tailor or workshop contact.
// Orders reference contacts when the work is outsourced to someone
// without an account in the system.
type Contact struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
	Note    string `gorm:"type:text" json:"note,omitempty"`

	// Relasi
	Orders []Order `gorm:"foreignKey:TailorContactID" json:"orders,omitempty"`
}
