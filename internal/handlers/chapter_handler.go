package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
	"github.com/OK4UK/academy-service/internal/validator"
)

type ChapterHandler struct {
	BaseHandler
	chapterService services.ChapterService
	validator      *validator.Validator
}

func NewChapterHandler(chapterService services.ChapterService, validator *validator.Validator, logger utils.Logger) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    NewBaseHandler(logger),
		chapterService: chapterService,
		validator:      validator,
	}
}

// CreateChapter adds a chapter to a course
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.CreateChapterRequest
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

	h.LogRequest(c, "Creating chapter", "course_id", courseID, "title", req.Title)

	chapter, err := h.chapterService.Create(c.Request.Context(), courseID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// ListChapters lists a course's chapters in order
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	response, err := h.chapterService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// scopedChapter resolves the chapter addressed by the route and checks that it
// belongs to the course in the same route. A chapter reached through the wrong
// course reads as not found.
func (h *ChapterHandler) scopedChapter(c *gin.Context) (uint, bool) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return 0, false
	}
	id := h.parseIDParam(c, "chapter_id")
	if id == 0 {
		return 0, false
	}

	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return 0, false
	}
	if chapter.CourseID != courseID {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Chapter not found",
		})
		return 0, false
	}
	return id, true
}

// GetChapter retrieves a chapter by ID
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id, ok := h.scopedChapter(c)
	if !ok {
		return
	}

	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// UpdateChapter updates a chapter
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id, ok := h.scopedChapter(c)
	if !ok {
		return
	}

	var req services.UpdateChapterRequest
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

	h.LogRequest(c, "Updating chapter", "chapter_id", id)

	chapter, err := h.chapterService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	id, ok := h.scopedChapter(c)
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting chapter", "chapter_id", id)

	if err := h.chapterService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkDeleteChapters deletes the selected chapters of one course
func (h *ChapterHandler) BulkDeleteChapters(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

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

	h.LogRequest(c, "Bulk deleting chapters", "course_id", courseID, "count", len(req.IDs))

	result, err := h.chapterService.DeleteBatch(c.Request.Context(), courseID, req.IDs, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportChapters downloads a course's chapter list as CSV
func (h *ChapterHandler) ExportChapters(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Exporting chapters", "course_id", courseID)

	file, err := h.chapterService.ExportCSV(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendExportFile(c, file)
}
