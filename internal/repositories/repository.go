package repositories

import "context"

// Repository aggregates every entity repository behind one interface.
type Repository interface {
	// Catalog domain
	Course() CourseRepository
	Chapter() ChapterRepository
	NvqCategory() NvqCategoryRepository

	// User domain
	Profile() ProfileRepository
	Identity() IdentityRepository

	// Sales domain
	Enrollment() EnrollmentRepository
	Payment() PaymentRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
