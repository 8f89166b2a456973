package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
	"github.com/OK4UK/academy-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	validator     *validator.Validator
}

func NewCourseHandler(courseService services.CourseService, validator *validator.Validator, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		validator:     validator,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /{role}/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course by ID
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates an existing course
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkDeleteCourses deletes the selected courses
func (h *CourseHandler) BulkDeleteCourses(c *gin.Context) {
	var req validator.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Bulk deleting courses", "count", len(req.IDs))

	result, err := h.courseService.DeleteBatch(c.Request.Context(), req.IDs, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkCourseAction runs a named action over the selected courses
func (h *CourseHandler) BulkCourseAction(c *gin.Context) {
	var req validator.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Bulk course action", "action", req.Action, "count", len(req.IDs))

	if err := h.courseService.BulkAction(c.Request.Context(), req.Action, req.IDs, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "action completed"})
}

// ListCourses lists courses with filters
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := h.parseCourseFilters(c)

	if query := c.Query("q"); query != "" {
		response, err := h.courseService.Search(c.Request.Context(), query, filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	response, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportCourses downloads the filtered course table as CSV or XLSX
func (h *CourseHandler) ExportCourses(c *gin.Context) {
	filters := h.parseCourseFilters(c)

	h.LogRequest(c, "Exporting courses", "format", c.DefaultQuery("format", "csv"))

	var file *services.ExportFile
	var err error
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		file, err = h.courseService.ExportXLSX(c.Request.Context(), filters)
	default:
		file, err = h.courseService.ExportCSV(c.Request.Context(), filters)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendExportFile(c, file)
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.CourseFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		courseStatus := models.CourseStatus(status)
		filters.Status = &courseStatus
	}

	if levelStr := c.Query("level"); levelStr != "" {
		if level := h.parseIntQuery(c, "level", 0); level != 0 {
			filters.Level = &level
		}
	}

	if categoryIDStr := c.Query("nvq_category_id"); categoryIDStr != "" {
		if id := uint(h.parseIntQuery(c, "nvq_category_id", 0)); id != 0 {
			filters.NvqCategoryID = &id
		}
	}

	if creatorID := c.Query("created_by"); creatorID != "" {
		filters.CreatedBy = &creatorID
	}

	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.DateTo = &t
		}
	}

	return filters
}
