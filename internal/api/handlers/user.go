package handlers

import (
	"net/http"
	"strconv"

	"saas-starter-backend/internal/auth"
	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers retrieves the caller's organization users with pagination
// @Summary List users
// @Description Get the users of the authenticated caller's organization, paginated
// @Tags users
// @Accept json
// @Produce json
// @Param limit query int false "Number of items to return" default(10)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} service.UsersListResponse "Successfully retrieved users list"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 403 {object} ErrorResponse "Caller has no organization"
// @Security BearerAuth
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	orgID, ok := auth.GetOrganizationID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrNoOrganization.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultListLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	response, err := h.userService.ListUsers(orgID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUser retrieves a single user by id, scoped to the caller's organization
// @Summary Get user by ID
// @Description Get a user of the caller's organization by UUID; users of other organizations are not visible
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User UUID"
// @Success 200 {object} service.UserResponse "Successfully retrieved user"
// @Failure 400 {object} ErrorResponse "Invalid user id"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	orgID, ok := auth.GetOrganizationID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrNoOrganization.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userService.GetUserByID(orgID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetMe retrieves the authenticated caller's own mirrored user row
// @Summary Get current user
// @Description Get the local user row mirrored from the auth provider for the authenticated caller
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} service.UserResponse "Successfully retrieved user"
// @Failure 404 {object} ErrorResponse "User not mirrored yet"
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	authUserID, ok := auth.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingSession.Error()})
		return
	}

	user, err := h.userService.GetUserByAuthProviderID(authUserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
