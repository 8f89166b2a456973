package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCourseServiceForTest(repo *fakeRepository) CourseService {
	return NewCourseService(repo, testLogger(), validator.New(), nil, nil)
}

func TestCourseServiceCreate(t *testing.T) {
	tests := []struct {
		name     string
		req      *CreateCourseRequest
		seed     *models.Course
		wantSlug string
		wantErr  error
	}{
		{
			name:     "slug derived from title",
			req:      &CreateCourseRequest{Title: "Plumbing Level 2"},
			wantSlug: "plumbing-level-2",
		},
		{
			name:     "explicit slug kept",
			req:      &CreateCourseRequest{Title: "Plumbing Level 2", Slug: "plumbing"},
			wantSlug: "plumbing",
		},
		{
			name:    "derived slug already taken",
			req:     &CreateCourseRequest{Title: "Plumbing Level 2"},
			seed:    &models.Course{Title: "Other", Slug: "plumbing-level-2"},
			wantErr: ErrSlugTaken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			if tt.seed != nil {
				repo.courses.Create(context.Background(), nil, tt.seed)
			}
			svc := newCourseServiceForTest(repo)

			course, err := svc.Create(context.Background(), tt.req, "admin-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if course.Slug != tt.wantSlug {
				t.Errorf("Create() slug = %q, want %q", course.Slug, tt.wantSlug)
			}
			if course.Status != models.CourseDraft {
				t.Errorf("Create() status = %q, want draft by default", course.Status)
			}
			if course.CreatedBy != "admin-1" {
				t.Errorf("Create() created_by = %q, want admin-1", course.CreatedBy)
			}
		})
	}
}

func TestCourseServiceCreateAttributes(t *testing.T) {
	repo := newFakeRepository()
	svc := newCourseServiceForTest(repo)

	level := 3
	duration := 90
	image := "https://cdn.example.com/plumbing.jpg"
	course, err := svc.Create(context.Background(), &CreateCourseRequest{
		Title:            "Plumbing Level 3",
		Level:            &level,
		DurationMinutes:  &duration,
		FeaturedImageURL: &image,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, err := repo.courses.GetByID(context.Background(), nil, course.ID)
	if err != nil {
		t.Fatalf("course not stored: %v", err)
	}
	if stored.Level == nil || *stored.Level != level {
		t.Errorf("Create() level = %v, want %d", stored.Level, level)
	}
	if stored.DurationMinutes == nil || *stored.DurationMinutes != duration {
		t.Errorf("Create() duration_minutes = %v, want %d", stored.DurationMinutes, duration)
	}
	if stored.FeaturedImageURL == nil || *stored.FeaturedImageURL != image {
		t.Errorf("Create() featured_image_url = %v, want %q", stored.FeaturedImageURL, image)
	}
}

func TestCourseServiceUpdateAttributes(t *testing.T) {
	repo := newFakeRepository()
	svc := newCourseServiceForTest(repo)
	ctx := context.Background()

	course, err := svc.Create(ctx, &CreateCourseRequest{Title: "Plumbing"}, "admin-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	duration := 120
	updated, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{DurationMinutes: &duration}, "admin-1")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.DurationMinutes == nil || *updated.DurationMinutes != duration {
		t.Errorf("Update() duration_minutes = %v, want %d", updated.DurationMinutes, duration)
	}
}

func TestCourseServiceEvents(t *testing.T) {
	repo := newFakeRepository()
	pub := events.NewMockEventPublisher(testLogger())
	svc := NewCourseService(repo, testLogger(), validator.New(), pub, nil)
	ctx := context.Background()

	course, err := svc.Create(ctx, &CreateCourseRequest{Title: "Plumbing"}, "admin-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	title := "Plumbing Basics"
	if _, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{Title: &title}, "admin-1"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Delete(ctx, course.ID, "admin-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{events.EventCourseCreated, events.EventCourseUpdated, events.EventCourseDeleted}
	if got := publishedEventTypes(pub); !reflect.DeepEqual(got, want) {
		t.Errorf("published events = %v, want %v", got, want)
	}
}

func TestCourseServiceDeleteBlockedByActiveEnrollment(t *testing.T) {
	repo := newFakeRepository()
	course := &models.Course{Title: "Plumbing", Slug: "plumbing", Status: models.CoursePublished}
	repo.courses.Create(context.Background(), nil, course)
	repo.enrollments.Create(context.Background(), nil, &models.Enrollment{
		CourseID:  course.ID,
		StudentID: "student-1",
		Status:    models.EnrollmentActive,
	})

	svc := newCourseServiceForTest(repo)

	if err := svc.Delete(context.Background(), course.ID, "admin-1"); !errors.Is(err, ErrCourseNotDeletable) {
		t.Fatalf("Delete() error = %v, want ErrCourseNotDeletable", err)
	}
	if _, err := repo.courses.GetByID(context.Background(), nil, course.ID); err != nil {
		t.Error("course should survive a blocked delete")
	}
}

func TestCourseServiceDeleteBatch(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	a := &models.Course{Title: "A", Slug: "a"}
	b := &models.Course{Title: "B", Slug: "b"}
	repo.courses.Create(ctx, nil, a)
	repo.courses.Create(ctx, nil, b)

	svc := newCourseServiceForTest(repo)

	// One id does not exist; the response reports the drift.
	resp, err := svc.DeleteBatch(ctx, []uint{a.ID, b.ID, 999}, "admin-1")
	if err != nil {
		t.Fatalf("DeleteBatch() error = %v", err)
	}
	if resp.Requested != 3 {
		t.Errorf("DeleteBatch() requested = %d, want 3", resp.Requested)
	}
	if resp.Deleted != 2 {
		t.Errorf("DeleteBatch() deleted = %d, want 2", resp.Deleted)
	}
}

func TestCourseServiceBulkAction(t *testing.T) {
	tests := []struct {
		name        string
		action      string
		wantNotImpl bool
	}{
		{name: "delete is supported", action: "delete"},
		{name: "publish is not wired up", action: "publish", wantNotImpl: true},
		{name: "unknown action", action: "explode", wantNotImpl: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			c := &models.Course{Title: "A", Slug: "a"}
			repo.courses.Create(context.Background(), nil, c)
			svc := newCourseServiceForTest(repo)

			err := svc.BulkAction(context.Background(), tt.action, []uint{c.ID}, "admin-1")
			var notImpl *NotImplementedError
			if tt.wantNotImpl {
				if !errors.As(err, &notImpl) {
					t.Fatalf("BulkAction(%q) error = %v, want NotImplementedError", tt.action, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BulkAction(%q) error = %v", tt.action, err)
			}
		})
	}
}

func TestCourseServiceUpdateStatusTransition(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	course := &models.Course{Title: "Plumbing", Slug: "plumbing", Status: models.CourseArchived}
	repo.courses.Create(ctx, nil, course)

	svc := newCourseServiceForTest(repo)

	published := models.CoursePublished
	if _, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{Status: &published}, "admin-1"); err == nil {
		t.Fatal("archived courses cannot go straight to published")
	}

	draft := models.CourseDraft
	if _, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{Status: &draft}, "admin-1"); err != nil {
		t.Fatalf("archived to draft should be allowed, got %v", err)
	}
}
