package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountUsersByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int, error) {
	db := getDB(r.db, tx)

	var rows []struct {
		Role  models.UserRole
		Count int
	}
	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, handleDBError(err, "count users by role")
	}

	counts := make(map[models.UserRole]int, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) CountCoursesByStatus(ctx context.Context, tx *gorm.DB) (map[models.CourseStatus]int, error) {
	db := getDB(r.db, tx)

	var rows []struct {
		Status models.CourseStatus
		Count  int
	}
	if err := db.WithContext(ctx).
		Model(&models.Course{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, handleDBError(err, "count courses by status")
	}

	counts := make(map[models.CourseStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) CountEnrollments(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count enrollments")
	}
	return count, nil
}

func (r *dashboardRepository) CountEnrollmentsByStatus(ctx context.Context, tx *gorm.DB, status models.EnrollmentStatus) (int64, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count enrollments by status")
	}
	return count, nil
}

func (r *dashboardRepository) TotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	db := getDB(r.db, tx)
	var total *float64

	if err := db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return 0, handleDBError(err, "sum payments")
	}

	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *dashboardRepository) GetRecentEnrollments(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.RecentEnrollment, error) {
	db := getDB(r.db, tx)
	if limit <= 0 {
		limit = 10
	}

	var recent []repositories.RecentEnrollment
	if err := db.WithContext(ctx).
		Table("enrollments e").
		Select("e.id as enrollment_id, c.title as course_title, p.full_name as student_name, e.status, e.created_at").
		Joins("INNER JOIN courses c ON c.id = e.course_id").
		Joins("INNER JOIN profiles p ON p.id = e.student_id").
		Where("e.deleted_at IS NULL").
		Order("e.created_at DESC").
		Limit(limit).
		Scan(&recent).Error; err != nil {
		return nil, handleDBError(err, "get recent enrollments")
	}

	return recent, nil
}
