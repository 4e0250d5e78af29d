package models

import (
	"strings"

	"github.com/google/uuid"
)

// User mirrors an account created through the external auth provider's
// signup flow. Rows are created and updated by the provider webhook, never
// hard-deleted.
type User struct {
	BaseModel
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" gorm:"type:uuid;index"`
	AuthProviderID string     `json:"auth_provider_id" gorm:"uniqueIndex;not null;size:64" validate:"required,max=64"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	FirstName      string     `json:"first_name" gorm:"size:100" validate:"max=100"`
	LastName       string     `json:"last_name" gorm:"size:100" validate:"max=100"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name, falling back to the email local part
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
