package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OK4UK/academy-service/internal/cache"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

const (
	dashboardCacheKey = "dashboard"
	dashboardCacheTTL = 5 * time.Minute
	recentLimit       = 10
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, cacheManager *cache.CacheManager) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		cache:  cacheManager,
	}
}

// GetOverview returns the landing aggregates for a role dashboard. The
// admin view is shared by every admin, so it is cached; the per-user views
// are cheap enough to compute on every request.
func (s *dashboardService) GetOverview(ctx context.Context, role models.UserRole, userID string) (*DashboardOverview, error) {
	switch role {
	case models.RoleAdmin:
		return s.adminOverview(ctx)
	case models.RoleStudent:
		return s.studentOverview(ctx, userID)
	case models.RoleAssessor:
		return s.assessorOverview(ctx)
	default:
		return nil, NewPermissionError(userID, "dashboard", "read", "unknown role")
	}
}

func (s *dashboardService) adminOverview(ctx context.Context) (*DashboardOverview, error) {
	if s.cache != nil {
		var cached DashboardOverview
		err := s.cache.Stats.CacheOrExecute(ctx, dashboardCacheKey, &cached, dashboardCacheTTL, func() (interface{}, error) {
			return s.buildAdminOverview(ctx)
		})
		if err == nil {
			return &cached, nil
		}
		s.logger.Warn("Dashboard cache unavailable, computing directly", "error", err)
	}

	return s.buildAdminOverview(ctx)
}

func (s *dashboardService) buildAdminOverview(ctx context.Context) (*DashboardOverview, error) {
	usersByRole, err := s.repo.Dashboard().CountUsersByRole(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	coursesByStatus, err := s.repo.Dashboard().CountCoursesByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	totalEnrollments, err := s.repo.Dashboard().CountEnrollments(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	activeEnrollments, err := s.repo.Dashboard().CountEnrollmentsByStatus(ctx, nil, models.EnrollmentActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active enrollments: %w", err)
	}

	revenue, err := s.repo.Dashboard().TotalRevenue(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	recent, err := s.repo.Dashboard().GetRecentEnrollments(ctx, nil, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent enrollments: %w", err)
	}

	return &DashboardOverview{
		Stats: &repositories.DashboardStats{
			UsersByRole:       usersByRole,
			CoursesByStatus:   coursesByStatus,
			TotalEnrollments:  int(totalEnrollments),
			ActiveEnrollments: int(activeEnrollments),
			Revenue:           revenue,
		},
		RecentEnrollments: recent,
	}, nil
}

func (s *dashboardService) studentOverview(ctx context.Context, studentID string) (*DashboardOverview, error) {
	enrollments, total, err := s.repo.Enrollment().GetByStudent(ctx, nil, studentID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load student enrollments: %w", err)
	}

	active := 0
	for _, e := range enrollments {
		if e.Status == models.EnrollmentActive {
			active++
		}
	}

	return &DashboardOverview{
		Stats: &repositories.DashboardStats{
			TotalEnrollments:  int(total),
			ActiveEnrollments: active,
		},
	}, nil
}

func (s *dashboardService) assessorOverview(ctx context.Context) (*DashboardOverview, error) {
	coursesByStatus, err := s.repo.Dashboard().CountCoursesByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	return &DashboardOverview{
		Stats: &repositories.DashboardStats{
			CoursesByStatus: coursesByStatus,
		},
	}, nil
}
