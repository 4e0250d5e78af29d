package handlers

import (
	"net/http"

	"saas-starter-backend/internal/auth"
	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler handles HTTP requests for the caller's organization
type OrganizationHandler struct {
	organizationService service.OrganizationServiceInterface
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(organizationService service.OrganizationServiceInterface) *OrganizationHandler {
	return &OrganizationHandler{
		organizationService: organizationService,
	}
}

// UpdateOrganizationBody represents the expected request body for PATCH /organization
type UpdateOrganizationBody struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// GetCurrent retrieves the authenticated caller's organization
// @Summary Get current organization
// @Description Get the organization the authenticated caller belongs to
// @Tags organizations
// @Accept json
// @Produce json
// @Success 200 {object} service.OrganizationResponse "Successfully retrieved organization"
// @Failure 403 {object} ErrorResponse "Caller has no organization"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /api/v1/organization [get]
func (h *OrganizationHandler) GetCurrent(c *gin.Context) {
	orgID, ok := auth.GetOrganizationID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrNoOrganization.Error()})
		return
	}

	org, err := h.organizationService.GetByID(orgID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get organization"})
		return
	}

	c.JSON(http.StatusOK, org)
}

// UpdateCurrent updates the authenticated caller's organization
// @Summary Update current organization
// @Description Update mutable fields of the caller's organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body UpdateOrganizationBody true "Fields to update"
// @Success 200 {object} service.OrganizationResponse "Successfully updated organization"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Caller has no organization"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /api/v1/organization [patch]
func (h *OrganizationHandler) UpdateCurrent(c *gin.Context) {
	orgID, ok := auth.GetOrganizationID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrNoOrganization.Error()})
		return
	}

	var body UpdateOrganizationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.organizationService.Update(orgID, &service.UpdateOrganizationRequest{
		DisplayName: body.DisplayName,
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update organization"})
		return
	}

	c.JSON(http.StatusOK, org)
}
