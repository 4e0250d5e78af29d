package models

// Organization represents the tenant entity every API call is scoped to
type Organization struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	DisplayName string `json:"display_name" gorm:"not null;size:200" validate:"required,max=200"`

	// Relationships
	Users []User `json:"users,omitempty" gorm:"foreignKey:OrganizationID"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
