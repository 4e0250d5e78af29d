package service

import (
	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// UserServiceInterface defines the interface for user service
type UserServiceInterface interface {
	GetUserByID(callerOrgID uuid.UUID, id uuid.UUID) (*UserResponse, error)
	GetUserByAuthProviderID(authProviderID string) (*UserResponse, error)
	ListUsers(organizationID uuid.UUID, limit, offset int) (*UsersListResponse, error)
	UpsertFromProvider(req *MirrorUserRequest) (*UserResponse, error)
	CountUsers(organizationID uuid.UUID) (int64, error)
}

// OrganizationServiceInterface defines the interface for organization service
type OrganizationServiceInterface interface {
	Create(req *CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(id uuid.UUID) (*OrganizationResponse, error)
	GetByName(name string) (*OrganizationResponse, error)
	Update(id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationResponse, error)
}
