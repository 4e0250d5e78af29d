package handlers

import (
	"net/http"
	"testing"

	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/mocks"
	"saas-starter-backend/internal/service"
	"saas-starter-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// OrganizationHandlerTestSuite defines the test suite for OrganizationHandler
type OrganizationHandlerTestSuite struct {
	suite.Suite
	ctrl                    *gomock.Controller
	mockOrganizationService *mocks.MockOrganizationServiceInterface
	handler                 *OrganizationHandler
	httpSuite               *testutils.HTTPTestSuite
	orgID                   uuid.UUID
}

// SetupTest sets up the test suite
func (suite *OrganizationHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrganizationService = mocks.NewMockOrganizationServiceInterface(suite.ctrl)
	suite.handler = NewOrganizationHandler(suite.mockOrganizationService)
	suite.httpSuite = testutils.SetupHTTPTest()

	suite.orgID = uuid.New()

	authed := func(c *gin.Context) {
		c.Set("auth_user_id", "user_abc123")
		c.Set("organization_id", suite.orgID)
		c.Next()
	}

	v1 := suite.httpSuite.Router.Group("/api/v1", authed)
	{
		v1.GET("/organization", suite.handler.GetCurrent)
		v1.PATCH("/organization", suite.handler.UpdateCurrent)
	}

	orgless := suite.httpSuite.Router.Group("/orgless", func(c *gin.Context) {
		c.Set("auth_user_id", "user_abc123")
		c.Next()
	})
	orgless.GET("/organization", suite.handler.GetCurrent)
}

// TearDownTest cleans up after each test
func (suite *OrganizationHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestGetCurrent tests retrieving the caller's organization
func (suite *OrganizationHandlerTestSuite) TestGetCurrent() {
	expected := &service.OrganizationResponse{
		ID:          suite.orgID,
		Name:        "acme",
		DisplayName: "Acme Inc.",
	}

	suite.mockOrganizationService.EXPECT().
		GetByID(suite.orgID).
		Return(expected, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organization", nil)

	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	var response service.OrganizationResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), "acme", response.Name)
	assert.Equal(suite.T(), "Acme Inc.", response.DisplayName)
}

// TestGetCurrentWithoutOrganization tests callers with no organization
func (suite *OrganizationHandlerTestSuite) TestGetCurrentWithoutOrganization() {
	recorder := suite.httpSuite.MakeRequest("GET", "/orgless/organization", nil)

	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

// TestGetCurrentNotFound tests a stale organization claim
func (suite *OrganizationHandlerTestSuite) TestGetCurrentNotFound() {
	suite.mockOrganizationService.EXPECT().
		GetByID(suite.orgID).
		Return(nil, apperrors.ErrOrganizationNotFound).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organization", nil)

	assert.Equal(suite.T(), http.StatusNotFound, recorder.Code)
}

// TestUpdateCurrent tests updating the organization display name
func (suite *OrganizationHandlerTestSuite) TestUpdateCurrent() {
	body := map[string]interface{}{
		"display_name": "Acme Corporation",
	}

	expected := &service.OrganizationResponse{
		ID:          suite.orgID,
		Name:        "acme",
		DisplayName: "Acme Corporation",
	}

	suite.mockOrganizationService.EXPECT().
		Update(suite.orgID, gomock.Any()).
		DoAndReturn(func(id uuid.UUID, req *service.UpdateOrganizationRequest) (*service.OrganizationResponse, error) {
			assert.NotNil(suite.T(), req.DisplayName)
			assert.Equal(suite.T(), "Acme Corporation", *req.DisplayName)
			return expected, nil
		}).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("PATCH", "/api/v1/organization", body)

	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	var response service.OrganizationResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), "Acme Corporation", response.DisplayName)
}

// TestUpdateCurrentNotFound tests updating a missing organization
func (suite *OrganizationHandlerTestSuite) TestUpdateCurrentNotFound() {
	body := map[string]interface{}{
		"display_name": "Acme Corporation",
	}

	suite.mockOrganizationService.EXPECT().
		Update(suite.orgID, gomock.Any()).
		Return(nil, apperrors.ErrOrganizationNotFound).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("PATCH", "/api/v1/organization", body)

	assert.Equal(suite.T(), http.StatusNotFound, recorder.Code)
}

// TestOrganizationHandlerTestSuite runs the test suite
func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}
