package testutils

import (
	"fmt"
	"time"

	"saas-starter-backend/internal/database/models"

	"github.com/google/uuid"
)

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization with default values
func (f *OrganizationFactory) Create() *models.Organization {
	id := uuid.New()
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "test-org-" + id.String()[:8],
		DisplayName: "Test Organization",
	}
}

// WithName sets a custom slug and display name for the organization
func (f *OrganizationFactory) WithName(name string) *models.Organization {
	org := f.Create()
	org.Name = name
	org.DisplayName = name
	return org
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values. IDs and emails are
// derived from a fresh UUID so multiple users never collide on the
// unique indexes.
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	suffix := id.String()[:8]

	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: nil,
		AuthProviderID: "user_" + suffix,
		Email:          fmt.Sprintf("user-%s@test.com", suffix),
		FirstName:      "Jane",
		LastName:       "Doe",
	}
}

// WithOrganization sets the organization ID for the user
func (f *UserFactory) WithOrganization(orgID uuid.UUID) *models.User {
	user := f.Create()
	user.OrganizationID = &orgID
	return user
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// WithAuthProviderID sets a custom provider ID for the user
func (f *UserFactory) WithAuthProviderID(authProviderID string) *models.User {
	user := f.Create()
	user.AuthProviderID = authProviderID
	return user
}

// FactorySet provides access to all factories
type FactorySet struct {
	Organization *OrganizationFactory
	User         *UserFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Organization: NewOrganizationFactory(),
		User:         NewUserFactory(),
	}
}
