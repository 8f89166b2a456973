package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OK4UK/academy-service/internal/cache"
	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Course     ServiceConfig
	Chapter    ServiceConfig
	User       ServiceConfig
	Enrollment ServiceConfig

	// Checkout link base for the payment provider redirect
	CheckoutBaseURL string

	// Global settings
	DefaultTimeout time.Duration
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
	config    ServiceManagerConfig

	// Service instances
	courseService     CourseService
	chapterService    ChapterService
	categoryService   NvqCategoryService
	userService       UserService
	enrollmentService EnrollmentService
	dashboardService  DashboardService
	navigationService NavigationService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager, checkoutBaseURL string) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Course: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     10 * time.Minute,
		},
		Chapter: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     10 * time.Minute,
		},
		User: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     15 * time.Minute,
		},
		Enrollment: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},

		CheckoutBaseURL: checkoutBaseURL,
		DefaultTimeout:  30 * time.Second,
	}

	return NewServiceManager(repo, logger, validator, publisher, cacheManager, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.Course.Enabled {
		sm.courseService = NewCourseService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.serviceCache(sm.config.Course))
		sm.logger.Info("Course service initialized")
	}

	if sm.config.Chapter.Enabled {
		sm.chapterService = NewChapterService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.serviceCache(sm.config.Chapter))
		sm.logger.Info("Chapter service initialized")
	}

	sm.categoryService = NewNvqCategoryService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("NVQ category service initialized")

	if sm.config.User.Enabled {
		sm.userService = NewUserService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.serviceCache(sm.config.User))
		sm.logger.Info("User service initialized")
	}

	if sm.config.Enrollment.Enabled {
		sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.config.CheckoutBaseURL)
		sm.logger.Info("Enrollment service initialized")
	}

	sm.dashboardService = NewDashboardService(sm.repo, sm.logger, sm.cache)
	sm.logger.Info("Dashboard service initialized")

	sm.navigationService = NewNavigationService(sm.logger)
	sm.logger.Info("Navigation service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) serviceCache(cfg ServiceConfig) *cache.CacheManager {
	if !cfg.CacheEnabled {
		return nil
	}
	return sm.cache
}

// Service getters
func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Course.Enabled && sm.courseService != nil {
		return sm.courseService
	}

	panic("course service not enabled or not initialized")
}

func (sm *serviceManager) Chapter() ChapterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Chapter.Enabled && sm.chapterService != nil {
		return sm.chapterService
	}

	panic("chapter service not enabled or not initialized")
}

func (sm *serviceManager) NvqCategory() NvqCategoryService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.categoryService != nil {
		return sm.categoryService
	}

	panic("nvq category service not initialized")
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.User.Enabled && sm.userService != nil {
		return sm.userService
	}

	panic("user service not enabled or not initialized")
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Enrollment.Enabled && sm.enrollmentService != nil {
		return sm.enrollmentService
	}

	panic("enrollment service not enabled or not initialized")
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.dashboardService != nil {
		return sm.dashboardService
	}

	panic("dashboard service not initialized")
}

func (sm *serviceManager) Navigation() NavigationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.navigationService != nil {
		return sm.navigationService
	}

	panic("navigation service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// ===== HELPER FUNCTIONS =====

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}
