package service

import (
	"errors"
	"fmt"
	"time"

	"saas-starter-backend/internal/database/models"
	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultListLimit applies when a caller omits or mangles the limit parameter
	DefaultListLimit = 10
	// MaxListLimit caps a single page
	MaxListLimit = 100
)

// UserService handles business logic for users
type UserService struct {
	repo      repository.UserRepositoryInterface
	validator *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepositoryInterface, validator *validator.Validate) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
	}
}

// MirrorUserRequest carries a provider webhook user payload to be mirrored
// into the local users table.
type MirrorUserRequest struct {
	AuthProviderID string     `json:"auth_provider_id" validate:"required,max=64"`
	Email          string     `json:"email" validate:"required,email,max=255"`
	FirstName      string     `json:"first_name" validate:"max=100"`
	LastName       string     `json:"last_name" validate:"max=100"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// UserResponse represents the response data for a user
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	AuthProviderID string     `json:"auth_provider_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// UsersListResponse is the swagger schema for GET /users
type UsersListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// GetUserByID retrieves a user, enforcing that the row belongs to the
// caller's organization.
func (s *UserService) GetUserByID(callerOrgID uuid.UUID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Cross-tenant reads look identical to missing rows.
	if user.OrganizationID == nil || *user.OrganizationID != callerOrgID {
		return nil, apperrors.ErrUserNotFound
	}

	return toUserResponse(user), nil
}

// GetUserByAuthProviderID retrieves a user by the external provider's id
func (s *UserService) GetUserByAuthProviderID(authProviderID string) (*UserResponse, error) {
	user, err := s.repo.GetByAuthProviderID(authProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserResponse(user), nil
}

// ListUsers returns the users of one organization, paginated. Limits below 1
// fall back to the default; limits above the cap are clamped.
func (s *UserService) ListUsers(organizationID uuid.UUID, limit, offset int) (*UsersListResponse, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.repo.GetByOrganizationID(organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}

	return &UsersListResponse{
		Users:  responses,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpsertFromProvider mirrors a provider user into the local table: creates
// the row on first sight of the provider id, updates it afterwards. Email
// uniqueness is enforced across provider ids.
func (s *UserService) UpsertFromProvider(req *MirrorUserRequest) (*UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetByAuthProviderID(req.AuthProviderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if existing != nil && err == nil {
		existing.Email = req.Email
		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		if req.OrganizationID != nil {
			existing.OrganizationID = req.OrganizationID
		}
		if err := s.repo.Update(existing); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return toUserResponse(existing), nil
	}

	// New provider id: the email must not be claimed by another user
	if byEmail, err := s.repo.GetByEmail(req.Email); err == nil && byEmail != nil {
		return nil, apperrors.ErrUserExists
	}

	user := &models.User{
		AuthProviderID: req.AuthProviderID,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		OrganizationID: req.OrganizationID,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

// CountUsers returns the number of users in an organization
func (s *UserService) CountUsers(organizationID uuid.UUID) (int64, error) {
	return s.repo.CountByOrganizationID(organizationID)
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		AuthProviderID: user.AuthProviderID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      user.UpdatedAt.Format(time.RFC3339),
	}
}
