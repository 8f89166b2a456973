package services

import (
	"context"
	"errors"
	"testing"

	"github.com/OK4UK/academy-service/internal/models"
)

func TestDashboardGetOverview(t *testing.T) {
	repo := newFakeRepository()
	repo.dashboard.usersByRole = map[models.UserRole]int{models.RoleStudent: 12, models.RoleAdmin: 2}
	repo.dashboard.coursesByStatus = map[models.CourseStatus]int{models.CoursePublished: 4}
	repo.dashboard.revenue = 1999.96
	repo.enrollments.Create(context.Background(), nil, &models.Enrollment{
		CourseID: 1, StudentID: "student-1", Status: models.EnrollmentActive,
	})
	repo.enrollments.Create(context.Background(), nil, &models.Enrollment{
		CourseID: 2, StudentID: "student-1", Status: models.EnrollmentPending,
	})

	svc := NewDashboardService(repo, testLogger(), nil)

	t.Run("admin sees site aggregates", func(t *testing.T) {
		overview, err := svc.GetOverview(context.Background(), models.RoleAdmin, "admin-1")
		if err != nil {
			t.Fatalf("GetOverview() error = %v", err)
		}
		if overview.Stats.UsersByRole[models.RoleStudent] != 12 {
			t.Errorf("students = %d, want 12", overview.Stats.UsersByRole[models.RoleStudent])
		}
		if overview.Stats.Revenue != 1999.96 {
			t.Errorf("revenue = %v", overview.Stats.Revenue)
		}
	})

	t.Run("student sees own enrollments", func(t *testing.T) {
		overview, err := svc.GetOverview(context.Background(), models.RoleStudent, "student-1")
		if err != nil {
			t.Fatalf("GetOverview() error = %v", err)
		}
		if overview.Stats.TotalEnrollments != 2 {
			t.Errorf("total enrollments = %d, want 2", overview.Stats.TotalEnrollments)
		}
		if overview.Stats.ActiveEnrollments != 1 {
			t.Errorf("active enrollments = %d, want 1", overview.Stats.ActiveEnrollments)
		}
	})

	t.Run("assessor sees course counts only", func(t *testing.T) {
		overview, err := svc.GetOverview(context.Background(), models.RoleAssessor, "assessor-1")
		if err != nil {
			t.Fatalf("GetOverview() error = %v", err)
		}
		if overview.Stats.CoursesByStatus[models.CoursePublished] != 4 {
			t.Errorf("published courses = %d, want 4", overview.Stats.CoursesByStatus[models.CoursePublished])
		}
		if overview.Stats.UsersByRole != nil {
			t.Error("assessors must not receive user counts")
		}
	})

	t.Run("unknown role is denied", func(t *testing.T) {
		_, err := svc.GetOverview(context.Background(), "superuser", "u-1")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("GetOverview() error = %v, want PermissionError", err)
		}
	})
}
