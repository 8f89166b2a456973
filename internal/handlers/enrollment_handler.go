package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll opens a pending enrollment and returns the checkout URL
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	studentID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling student", "course_id", req.CourseID)

	response, err := h.enrollmentService.Enroll(c.Request.Context(), req.CourseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// PaymentWebhook receives payment confirmations from the provider. The
// provider retries on non-2xx, so duplicate references come back as 409
// and are not retried.
func (h *EnrollmentHandler) PaymentWebhook(c *gin.Context) {
	var req services.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Payment webhook received", "enrollment_id", req.EnrollmentID, "reference", req.Reference)

	payment, err := h.enrollmentService.RecordPayment(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// MyCourses lists the authenticated student's enrollments
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	studentID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.GetMyCourses(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}
