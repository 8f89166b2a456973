package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

// ErrorResponse is the error envelope returned by every handler.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps handler results that carry no natural body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, msg string, err error, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

func (h *BaseHandler) RespondWithError(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// ===== PARAM HELPERS =====

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) currentUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// requireUserID pulls the authenticated user id or responds 401.
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	id := h.currentUserID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

// ===== ERROR MAPPING =====

// handleServiceError maps typed service errors onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	var notImplemented *services.NotImplementedError
	if errors.As(err, &notImplemented) {
		c.JSON(http.StatusNotImplemented, ErrorResponse{
			Message: "Operation not implemented",
			Details: map[string]interface{}{
				"operation": notImplemented.Operation,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Course not found"})
	case errors.Is(err, services.ErrChapterNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Chapter not found"})
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "NVQ category not found"})
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
	case errors.Is(err, services.ErrEnrollmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Enrollment not found"})
	case errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Slug already in use"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Email already registered"})
	case errors.Is(err, services.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Already enrolled in this course"})
	case errors.Is(err, services.ErrDuplicatePayment):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Payment already recorded"})
	case errors.Is(err, services.ErrCourseNotDeletable):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Course has active enrollments"})
	default:
		h.LogError(c, "Unhandled service error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// sendExportFile streams a rendered export with download headers.
func (h *BaseHandler) sendExportFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
