package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

type enrollmentService struct {
	repo            repositories.Repository
	logger          *slog.Logger
	validator       *validator.Validator
	publisher       events.EventPublisher
	checkoutBaseURL string
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, checkoutBaseURL string) EnrollmentService {
	return &enrollmentService{
		repo:            repo,
		logger:          logger,
		validator:       validator,
		publisher:       publisher,
		checkoutBaseURL: checkoutBaseURL,
	}
}

// Enroll opens a pending enrollment and hands back the provider checkout
// URL. The enrollment only becomes active once the payment webhook lands.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, studentID string) (*EnrollResponse, error) {
	s.logger.Info("Starting enrollment", "course_id", courseID, "student_id", studentID)

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.Status != models.CoursePublished {
		return nil, &BusinessRuleError{
			Rule:    "course_published",
			Message: "only published courses accept enrollments",
			Context: map[string]interface{}{"course_id": courseID, "status": course.Status},
		}
	}

	existing, err := s.repo.Enrollment().GetByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("enrollment check failed: %w", err)
	}
	if existing != nil && existing.Status != models.EnrollmentCancelled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    models.EnrollmentPending,
	}

	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publishEvent(ctx, events.EventEnrollInitiated, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"course_id":     courseID,
		"student_id":    studentID,
	})

	checkoutURL := fmt.Sprintf("%s/checkout?enrollment=%d&course=%s", s.checkoutBaseURL, enrollment.ID, course.Slug)

	s.logger.Info("Enrollment created", "enrollment_id", enrollment.ID)
	return &EnrollResponse{Enrollment: enrollment, CheckoutURL: checkoutURL}, nil
}

// RecordPayment handles the provider webhook. Replays of the same payment
// reference are rejected so one checkout can only activate one enrollment.
func (s *enrollmentService) RecordPayment(ctx context.Context, req *PaymentWebhookRequest) (*models.Payment, error) {
	s.logger.Info("Recording payment", "enrollment_id", req.EnrollmentID, "reference", req.Reference)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	if existing, err := s.repo.Payment().GetByReference(ctx, nil, req.Reference); err == nil && existing != nil {
		return nil, ErrDuplicatePayment
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}

	var payment *models.Payment
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		enrollment, err := r.Enrollment().GetByID(ctx, nil, req.EnrollmentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}

		var payload datatypes.JSON
		if req.Payload != nil {
			raw, err := json.Marshal(req.Payload)
			if err != nil {
				return fmt.Errorf("failed to encode provider payload: %w", err)
			}
			payload = raw
		}

		payment = &models.Payment{
			EnrollmentID:    enrollment.ID,
			Amount:          req.Amount,
			Currency:        req.Currency,
			Provider:        req.Provider,
			Reference:       req.Reference,
			ProviderPayload: payload,
		}

		if err := r.Payment().Create(ctx, nil, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		enrollment.Status = models.EnrollmentActive
		if err := r.Enrollment().Update(ctx, nil, enrollment); err != nil {
			return fmt.Errorf("failed to activate enrollment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventPaymentRecorded, map[string]interface{}{
		"payment_id":    payment.ID,
		"enrollment_id": req.EnrollmentID,
		"amount":        req.Amount,
		"currency":      req.Currency,
	})

	s.logger.Info("Payment recorded", "payment_id", payment.ID, "enrollment_id", req.EnrollmentID)
	return payment, nil
}

func (s *enrollmentService) GetMyCourses(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	enrollments, _, err := s.repo.Enrollment().GetByStudent(ctx, nil, studentID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list student enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, total, nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
