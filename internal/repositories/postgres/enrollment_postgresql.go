package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return r.handleDBError(err, "create enrollment")
	}
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment

	if err := db.WithContext(ctx).
		Preload("Course").
		First(&enrollment, id).Error; err != nil {
		return nil, r.handleDBError(err, "get enrollment by id")
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return r.handleDBError(err, "update enrollment")
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Enrollment{}, id).Error; err != nil {
		return r.handleDBError(err, "delete enrollment")
	}
	return nil
}

func (r *enrollmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := r.getDB(tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).Model(&models.Enrollment{}).
		Preload("Course").
		Preload("Student")

	query = r.applyEnrollmentFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count enrollments")
	}

	sortKeyToColumn := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"status":     "status",
		"id":         "id",
	}
	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, sortKeyToColumn, "created_at", "DESC")

	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list enrollments")
	}

	return enrollments, total, nil
}

func (r *enrollmentRepository) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	filters.StudentID = &studentID
	return r.List(ctx, tx, filters)
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment

	if err := db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, r.handleDBError(err, "get enrollment by student and course")
	}

	return &enrollment, nil
}

// ===== HELPER METHODS =====

func (r *enrollmentRepository) getDB(tx *gorm.DB) *gorm.DB {
	return getDB(r.db, tx)
}

func (r *enrollmentRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

func (r *enrollmentRepository) applyEnrollmentFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	return query
}

// ===== PAYMENT REPOSITORY =====

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) repositories.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(payment).Error; err != nil {
		return handleDBError(err, "create payment")
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	db := getDB(r.db, tx)
	var payment models.Payment

	if err := db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, handleDBError(err, "get payment by id")
	}

	return &payment, nil
}

func (r *paymentRepository) GetByReference(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error) {
	db := getDB(r.db, tx)
	var payment models.Payment

	if err := db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, handleDBError(err, "get payment by reference")
	}

	return &payment, nil
}

func (r *paymentRepository) GetByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Payment, error) {
	db := getDB(r.db, tx)
	var payments []*models.Payment

	if err := db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("paid_at DESC").
		Find(&payments).Error; err != nil {
		return nil, handleDBError(err, "get payments by enrollment")
	}

	return payments, nil
}
