package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
)

type EnrollmentRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID string, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (*models.Enrollment, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	GetByReference(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error)
	GetByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Payment, error)
}
