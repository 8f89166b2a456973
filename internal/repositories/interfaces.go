package repositories

import (
	"time"

	"github.com/OK4UK/academy-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Status        *models.CourseStatus `json:"status"`
	NvqCategoryID *uint                `json:"nvq_category_id"`
	Level         *int                 `json:"level"`
	CreatedBy     *string              `json:"created_by"`
	Query         *string              `json:"query"`
	DateFrom      *time.Time           `json:"date_from"`
	DateTo        *time.Time           `json:"date_to"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
	SortBy        string               `json:"sort_by"`    // "created_at", "title", "price", "status"
	SortOrder     string               `json:"sort_order"` // "asc", "desc"
}

type ChapterFilters struct {
	CourseID  *uint   `json:"course_id"`
	Query     *string `json:"query"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "order_index", "title", "created_at"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type NvqCategoryFilters struct {
	Level     *int    `json:"level"`
	Query     *string `json:"query"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

type ProfileFilters struct {
	Role      *models.UserRole `json:"role"`
	Query     *string          `json:"query"` // name or email
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`
	SortOrder string           `json:"sort_order"`
}

type EnrollmentFilters struct {
	Status    *models.EnrollmentStatus `json:"status"`
	CourseID  *uint                    `json:"course_id"`
	StudentID *string                  `json:"student_id"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type DashboardStats struct {
	UsersByRole       map[models.UserRole]int     `json:"users_by_role"`
	CoursesByStatus   map[models.CourseStatus]int `json:"courses_by_status"`
	TotalEnrollments  int                         `json:"total_enrollments"`
	ActiveEnrollments int                         `json:"active_enrollments"`
	Revenue           float64                     `json:"revenue"`
}

type RecentEnrollment struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseTitle  string    `json:"course_title"`
	StudentName  string    `json:"student_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
