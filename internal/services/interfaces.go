package services

import (
	"context"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateChapterRequest = validator.ChapterCreateRequest
type UpdateChapterRequest = validator.ChapterUpdateRequest
type CreateNvqCategoryRequest = validator.NvqCategoryCreateRequest
type UpdateNvqCategoryRequest = validator.NvqCategoryUpdateRequest
type CreateProfileRequest = validator.ProfileCreateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type UpdateAccountRequest = validator.AccountUpdateRequest
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type EnrollRequest = validator.EnrollRequest
type PaymentWebhookRequest = validator.PaymentWebhookRequest

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

type ChapterListResponse struct {
	Chapters []*models.Chapter `json:"chapters"`
	Total    int64             `json:"total"`
}

type NvqCategoryListResponse struct {
	Categories []*models.NvqCategory `json:"categories"`
	Total      int64                 `json:"total"`
}

type ProfileListResponse struct {
	Profiles []*models.Profile `json:"profiles"`
	Total    int64             `json:"total"`
}

type BulkDeleteResponse struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

// ExportFile carries a rendered export document and its download metadata.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type LoginResponse struct {
	Token    string          `json:"token"`
	Profile  *models.Profile `json:"profile"`
	Redirect string          `json:"redirect"`
}

type EnrollResponse struct {
	Enrollment  *models.Enrollment `json:"enrollment"`
	CheckoutURL string             `json:"checkout_url"`
}

type DashboardOverview struct {
	Stats             *repositories.DashboardStats    `json:"stats"`
	RecentEnrollments []repositories.RecentEnrollment `json:"recent_enrollments"`
}

// NavItem is one entry in a role dashboard's navigation surface. Active
// marks the entry matching the section the caller is currently viewing.
type NavItem struct {
	Label  string `json:"label"`
	Slug   string `json:"slug"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

type NavResponse struct {
	Role  models.UserRole `json:"role"`
	Items []NavItem       `json:"items"`
}

type SectionResponse struct {
	Role    models.UserRole `json:"role"`
	Section string          `json:"section"`
	// Component names the renderable surface for the section. Sections
	// without a built surface resolve to "under_construction".
	Component string                 `json:"component"`
	Props     map[string]interface{} `json:"props,omitempty"`
}

// ===== SERVICE INTERFACES =====

type CourseService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateCourseRequest, creatorID string) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID string) (*models.Course, error)
	Delete(ctx context.Context, id uint, userID string) error
	DeleteBatch(ctx context.Context, ids []uint, userID string) (*BulkDeleteResponse, error)
	BulkAction(ctx context.Context, action string, ids []uint, userID string) error

	// List and search operations
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	ListPublished(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	Search(ctx context.Context, query string, filters repositories.CourseFilters) (*CourseListResponse, error)

	// Export operations
	ExportCSV(ctx context.Context, filters repositories.CourseFilters) (*ExportFile, error)
	ExportXLSX(ctx context.Context, filters repositories.CourseFilters) (*ExportFile, error)
}

type ChapterService interface {
	Create(ctx context.Context, courseID uint, req *CreateChapterRequest, userID string) (*models.Chapter, error)
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	Update(ctx context.Context, id uint, req *UpdateChapterRequest, userID string) (*models.Chapter, error)
	Delete(ctx context.Context, id uint, userID string) error
	DeleteBatch(ctx context.Context, courseID uint, ids []uint, userID string) (*BulkDeleteResponse, error)

	ListByCourse(ctx context.Context, courseID uint) (*ChapterListResponse, error)
	List(ctx context.Context, filters repositories.ChapterFilters) (*ChapterListResponse, error)

	ExportCSV(ctx context.Context, courseID uint) (*ExportFile, error)
}

type NvqCategoryService interface {
	Create(ctx context.Context, req *CreateNvqCategoryRequest, userID string) (*models.NvqCategory, error)
	GetByID(ctx context.Context, id uint) (*models.NvqCategory, error)
	Update(ctx context.Context, id uint, req *UpdateNvqCategoryRequest, userID string) (*models.NvqCategory, error)
	Delete(ctx context.Context, id uint, userID string) error
	DeleteBatch(ctx context.Context, ids []uint, userID string) (*BulkDeleteResponse, error)
	List(ctx context.Context, filters repositories.NvqCategoryFilters) (*NvqCategoryListResponse, error)
}

type UserService interface {
	// Admin CRUD over profiles
	Create(ctx context.Context, req *CreateProfileRequest, adminID string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, id string, req *UpdateProfileRequest, adminID string) (*models.Profile, error)
	Delete(ctx context.Context, id string, adminID string) error
	DeleteBatch(ctx context.Context, ids []string, adminID string) (*BulkDeleteResponse, error)
	List(ctx context.Context, filters repositories.ProfileFilters) (*ProfileListResponse, error)
	Search(ctx context.Context, query string, filters repositories.ProfileFilters) (*ProfileListResponse, error)

	// Self-service auth flows
	Register(ctx context.Context, req *RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateOwnProfile(ctx context.Context, userID string, req *UpdateAccountRequest) (*models.Profile, error)
	ResendVerification(ctx context.Context, userID string) error

	ExportCSV(ctx context.Context, filters repositories.ProfileFilters) (*ExportFile, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, studentID string) (*EnrollResponse, error)
	RecordPayment(ctx context.Context, req *PaymentWebhookRequest) (*models.Payment, error)
	GetMyCourses(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error)
}

type DashboardService interface {
	GetOverview(ctx context.Context, role models.UserRole, userID string) (*DashboardOverview, error)
}

type NavigationService interface {
	GetNav(ctx context.Context, role models.UserRole, section string) (*NavResponse, error)
	ResolveSection(ctx context.Context, role models.UserRole, section string) (*SectionResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Course() CourseService
	Chapter() ChapterService
	NvqCategory() NvqCategoryService
	User() UserService
	Enrollment() EnrollmentService
	Dashboard() DashboardService
	Navigation() NavigationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
