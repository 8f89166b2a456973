package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
)

// DashboardRepository interface for admin dashboard aggregates
type DashboardRepository interface {
	// Counts
	CountUsersByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int, error)
	CountCoursesByStatus(ctx context.Context, tx *gorm.DB) (map[models.CourseStatus]int, error)
	CountEnrollments(ctx context.Context, tx *gorm.DB) (int64, error)
	CountEnrollmentsByStatus(ctx context.Context, tx *gorm.DB, status models.EnrollmentStatus) (int64, error)

	// Revenue
	TotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error)

	// Recent activity
	GetRecentEnrollments(ctx context.Context, tx *gorm.DB, limit int) ([]RecentEnrollment, error)
}
