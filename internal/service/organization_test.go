package service_test

import (
	"testing"

	"saas-starter-backend/internal/database/models"
	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/mocks"
	"saas-starter-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	ctrl                *gomock.Controller
	mockOrgRepo         *mocks.MockOrganizationRepositoryInterface
	organizationService *service.OrganizationService
	validator           *validator.Validate
}

// SetupTest sets up the test suite
func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrgRepo = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.validator = validator.New()

	suite.organizationService = service.NewOrganizationService(suite.mockOrgRepo, suite.validator)
}

// TearDownTest cleans up after each test
func (suite *OrganizationServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateOrganization tests creating an organization
func (suite *OrganizationServiceTestSuite) TestCreateOrganization() {
	req := &service.CreateOrganizationRequest{
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	// No existing organization with the same name
	suite.mockOrgRepo.EXPECT().
		GetByName(req.Name).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	suite.mockOrgRepo.EXPECT().
		Create(gomock.Any()).
		Return(nil).
		Times(1)

	response, err := suite.organizationService.Create(req)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), response)
	assert.Equal(suite.T(), req.Name, response.Name)
	assert.Equal(suite.T(), req.DisplayName, response.DisplayName)
}

// TestCreateOrganizationValidationError tests creating an organization with an empty name
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationValidationError() {
	req := &service.CreateOrganizationRequest{
		Name:        "",
		DisplayName: "Acme Inc.",
	}

	response, err := suite.organizationService.Create(req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.Contains(suite.T(), err.Error(), "validation failed")
}

// TestCreateOrganizationDuplicateName tests creating an organization with a taken name
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationDuplicateName() {
	req := &service.CreateOrganizationRequest{
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	existingOrg := &models.Organization{
		BaseModel: models.BaseModel{
			ID: uuid.New(),
		},
		Name:        req.Name,
		DisplayName: "The Original Acme",
	}

	suite.mockOrgRepo.EXPECT().
		GetByName(req.Name).
		Return(existingOrg, nil).
		Times(1)

	response, err := suite.organizationService.Create(req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.ErrorIs(suite.T(), err, apperrors.ErrOrganizationExists)
}

// TestGetByID tests retrieving an organization by ID
func (suite *OrganizationServiceTestSuite) TestGetByID() {
	orgID := uuid.New()
	org := &models.Organization{
		BaseModel: models.BaseModel{
			ID: orgID,
		},
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(org, nil).
		Times(1)

	response, err := suite.organizationService.GetByID(orgID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), response)
	assert.Equal(suite.T(), orgID, response.ID)
	assert.Equal(suite.T(), "acme", response.Name)
}

// TestGetByIDNotFound tests retrieving a missing organization
func (suite *OrganizationServiceTestSuite) TestGetByIDNotFound() {
	orgID := uuid.New()

	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	response, err := suite.organizationService.GetByID(orgID)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsNotFound(err))
}

// TestGetByName tests retrieving an organization by slug
func (suite *OrganizationServiceTestSuite) TestGetByName() {
	org := &models.Organization{
		BaseModel: models.BaseModel{
			ID: uuid.New(),
		},
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	suite.mockOrgRepo.EXPECT().
		GetByName("acme").
		Return(org, nil).
		Times(1)

	response, err := suite.organizationService.GetByName("acme")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), response)
	assert.Equal(suite.T(), "Acme Inc.", response.DisplayName)
}

// TestUpdateOrganization tests updating an organization's display name
func (suite *OrganizationServiceTestSuite) TestUpdateOrganization() {
	orgID := uuid.New()
	org := &models.Organization{
		BaseModel: models.BaseModel{
			ID: orgID,
		},
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	newDisplayName := "Acme Corporation"
	req := &service.UpdateOrganizationRequest{
		DisplayName: &newDisplayName,
	}

	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(org, nil).
		Times(1)

	suite.mockOrgRepo.EXPECT().
		Update(gomock.Any()).
		Return(nil).
		Times(1)

	response, err := suite.organizationService.Update(orgID, req)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), response)
	assert.Equal(suite.T(), newDisplayName, response.DisplayName)
	// The immutable slug stays put
	assert.Equal(suite.T(), "acme", response.Name)
}

// TestUpdateOrganizationNotFound tests updating a missing organization
func (suite *OrganizationServiceTestSuite) TestUpdateOrganizationNotFound() {
	orgID := uuid.New()
	newDisplayName := "Acme Corporation"
	req := &service.UpdateOrganizationRequest{
		DisplayName: &newDisplayName,
	}

	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	response, err := suite.organizationService.Update(orgID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsNotFound(err))
}

// TestUpdateOrganizationNoFields tests that an empty update leaves the row untouched
func (suite *OrganizationServiceTestSuite) TestUpdateOrganizationNoFields() {
	orgID := uuid.New()
	org := &models.Organization{
		BaseModel: models.BaseModel{
			ID: orgID,
		},
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	req := &service.UpdateOrganizationRequest{}

	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(org, nil).
		Times(1)

	suite.mockOrgRepo.EXPECT().
		Update(gomock.Any()).
		Return(nil).
		Times(1)

	response, err := suite.organizationService.Update(orgID, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Inc.", response.DisplayName)
}

// TestOrganizationServiceTestSuite runs the test suite
func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
