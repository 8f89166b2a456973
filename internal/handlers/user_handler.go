package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
	"github.com/OK4UK/academy-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// CreateUser provisions a new account (admin only)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating user", "email", req.Email, "role", req.Role)

	profile, err := h.userService.Create(c.Request.Context(), &req, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	profile, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateUser updates a user's profile
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating user", "profile_id", id)

	profile, err := h.userService.Update(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteUser removes a user account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	adminID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting user", "profile_id", id)

	if err := h.userService.Delete(c.Request.Context(), id, adminID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkDeleteUsers removes the selected user accounts
func (h *UserHandler) BulkDeleteUsers(c *gin.Context) {
	var req validator.BulkDeleteProfilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Bulk deleting users", "count", len(req.IDs))

	result, err := h.userService.DeleteBatch(c.Request.Context(), req.IDs, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListUsers lists user profiles with filters
func (h *UserHandler) ListUsers(c *gin.Context) {
	filters := h.parseProfileFilters(c)

	if query := c.Query("q"); query != "" {
		response, err := h.userService.Search(c.Request.Context(), query, filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	response, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportUsers downloads the filtered user table as CSV
func (h *UserHandler) ExportUsers(c *gin.Context) {
	filters := h.parseProfileFilters(c)

	h.LogRequest(c, "Exporting users")

	file, err := h.userService.ExportCSV(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendExportFile(c, file)
}

func (h *UserHandler) parseProfileFilters(c *gin.Context) repositories.ProfileFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.ProfileFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if role := c.Query("role"); role != "" {
		userRole := models.UserRole(role)
		filters.Role = &userRole
	}

	return filters
}
