//go:build integration
// +build integration

package repository

import (
	"testing"

	"saas-starter-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// OrganizationRepositoryTestSuite tests the OrganizationRepository
type OrganizationRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *OrganizationRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *OrganizationRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewOrganizationRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *OrganizationRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *OrganizationRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *OrganizationRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreate tests creating a new organization
func (suite *OrganizationRepositoryTestSuite) TestCreate() {
	org := suite.factories.Organization.Create()

	err := suite.repo.Create(org)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, org.ID)
	suite.NotZero(org.CreatedAt)
	suite.NotZero(org.UpdatedAt)
}

// TestCreateDuplicateName tests that the name slug is unique at the DB level
func (suite *OrganizationRepositoryTestSuite) TestCreateDuplicateName() {
	org1 := suite.factories.Organization.WithName("acme")
	suite.NoError(suite.repo.Create(org1))

	org2 := suite.factories.Organization.WithName("acme")

	err := suite.repo.Create(org2)
	suite.Error(err)
	suite.Contains(err.Error(), "duplicate key value")
}

// TestGetByID tests retrieving an organization by ID
func (suite *OrganizationRepositoryTestSuite) TestGetByID() {
	org := suite.factories.Organization.Create()
	suite.NoError(suite.repo.Create(org))

	retrieved, err := suite.repo.GetByID(org.ID)

	suite.NoError(err)
	suite.NotNil(retrieved)
	suite.Equal(org.ID, retrieved.ID)
	suite.Equal(org.Name, retrieved.Name)
	suite.Equal(org.DisplayName, retrieved.DisplayName)
}

// TestGetByIDNotFound tests retrieving a non-existent organization
func (suite *OrganizationRepositoryTestSuite) TestGetByIDNotFound() {
	retrieved, err := suite.repo.GetByID(uuid.New())

	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.Nil(retrieved)
}

// TestGetByName tests retrieving an organization by slug
func (suite *OrganizationRepositoryTestSuite) TestGetByName() {
	org := suite.factories.Organization.WithName("acme")
	suite.NoError(suite.repo.Create(org))

	retrieved, err := suite.repo.GetByName("acme")

	suite.NoError(err)
	suite.Equal(org.ID, retrieved.ID)

	_, err = suite.repo.GetByName("nope")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetAll tests listing organizations with pagination
func (suite *OrganizationRepositoryTestSuite) TestGetAll() {
	for i := 0; i < 3; i++ {
		suite.NoError(suite.repo.Create(suite.factories.Organization.Create()))
	}

	orgs, total, err := suite.repo.GetAll(2, 0)
	suite.NoError(err)
	suite.Len(orgs, 2)
	suite.Equal(int64(3), total)

	orgs, total, err = suite.repo.GetAll(10, 2)
	suite.NoError(err)
	suite.Len(orgs, 1)
	suite.Equal(int64(3), total)
}

// TestGetWithUsers tests preloading an organization's users
func (suite *OrganizationRepositoryTestSuite) TestGetWithUsers() {
	org := suite.factories.Organization.Create()
	suite.NoError(suite.repo.Create(org))

	userRepo := NewUserRepository(suite.baseTestSuite.DB)
	for i := 0; i < 2; i++ {
		suite.NoError(userRepo.Create(suite.factories.User.WithOrganization(org.ID)))
	}

	retrieved, err := suite.repo.GetWithUsers(org.ID)

	suite.NoError(err)
	suite.Len(retrieved.Users, 2)
}

// TestUpdate tests updating an organization
func (suite *OrganizationRepositoryTestSuite) TestUpdate() {
	org := suite.factories.Organization.Create()
	suite.NoError(suite.repo.Create(org))

	org.DisplayName = "Renamed Inc."
	suite.NoError(suite.repo.Update(org))

	retrieved, err := suite.repo.GetByID(org.ID)
	suite.NoError(err)
	suite.Equal("Renamed Inc.", retrieved.DisplayName)
}

// TestOrganizationRepositoryTestSuite runs the test suite
func TestOrganizationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepositoryTestSuite))
}
