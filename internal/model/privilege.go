package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "order:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Order"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Order management
	{Code: "order:view", Name: "View Order"},
	{Code: "order:create", Name: "Create Order"},
	{Code: "order:update", Name: "Update Order"},
	{Code: "order:delete", Name: "Delete Order"},
	{Code: "order:change_status", Name: "Change Order Status"},
	// Progress reporting
	{Code: "report:view", Name: "View Progress Report"},
	{Code: "report:create", Name: "Submit Progress Report"},
	// Public order links
	{Code: "link:view", Name: "View Order Link"},
	{Code: "link:create", Name: "Create Order Link"},
	{Code: "link:revoke", Name: "Revoke Order Link"},
	// Product catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Material stock
	{Code: "material:view", Name: "View Material"},
	{Code: "material:create", Name: "Create Material"},
	{Code: "material:update", Name: "Update Material"},
	{Code: "material:delete", Name: "Delete Material"},
	{Code: "material:adjust", Name: "Adjust Material Stock"},
	// Contacts
	{Code: "contact:view", Name: "View Contact"},
	{Code: "contact:create", Name: "Create Contact"},
	{Code: "contact:update", Name: "Update Contact"},
	{Code: "contact:delete", Name: "Delete Contact"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
