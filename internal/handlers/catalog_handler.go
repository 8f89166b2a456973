package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

// CatalogHandler serves the public storefront: published courses only,
// no authentication.
type CatalogHandler struct {
	BaseHandler
	courseService  services.CourseService
	chapterService services.ChapterService
}

func NewCatalogHandler(courseService services.CourseService, chapterService services.ChapterService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		courseService:  courseService,
		chapterService: chapterService,
	}
}

// ListCourses lists published courses for the storefront
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 12)

	filters := repositories.CourseFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if categoryID := uint(h.parseIntQuery(c, "nvq_category_id", 0)); categoryID != 0 {
		filters.NvqCategoryID = &categoryID
	}
	if query := c.Query("q"); query != "" {
		filters.Query = &query
	}

	response, err := h.courseService.ListPublished(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCourse retrieves a published course by slug
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	slug := h.parseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	course, err := h.courseService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Draft and archived courses do not exist as far as the public
	// storefront is concerned.
	if course.Status != models.CoursePublished {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Course not found"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCourseChapters lists a published course's chapter outline
func (h *CatalogHandler) GetCourseChapters(c *gin.Context) {
	slug := h.parseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	course, err := h.courseService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if course.Status != models.CoursePublished {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Course not found"})
		return
	}

	response, err := h.chapterService.ListByCourse(c.Request.Context(), course.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
