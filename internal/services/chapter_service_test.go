package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/validator"
)

func newChapterServiceForTest(repo *fakeRepository) ChapterService {
	return NewChapterService(repo, testLogger(), validator.New(), nil, nil)
}

func TestChapterServiceCreateOrderIndex(t *testing.T) {
	tests := []struct {
		name      string
		existing  []int
		reqOrder  *int
		wantOrder int
	}{
		{name: "empty course starts at 1", wantOrder: 1},
		{name: "appends after highest", existing: []int{1, 2, 5}, wantOrder: 6},
		{name: "explicit order wins", existing: []int{1, 2}, reqOrder: intPtr(1), wantOrder: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			ctx := context.Background()
			course := &models.Course{Title: "Plumbing", Slug: "plumbing"}
			repo.courses.Create(ctx, nil, course)
			for _, order := range tt.existing {
				repo.chapters.Create(ctx, nil, &models.Chapter{CourseID: course.ID, Title: "seed", OrderIndex: order})
			}

			svc := newChapterServiceForTest(repo)
			chapter, err := svc.Create(ctx, course.ID, &CreateChapterRequest{Title: "Pipework", OrderIndex: tt.reqOrder}, "admin-1")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if chapter.OrderIndex != tt.wantOrder {
				t.Errorf("Create() order_index = %d, want %d", chapter.OrderIndex, tt.wantOrder)
			}
		})
	}
}

func TestChapterServiceCreateSlug(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	course := &models.Course{Title: "Plumbing", Slug: "plumbing"}
	repo.courses.Create(ctx, nil, course)

	svc := newChapterServiceForTest(repo)

	tests := []struct {
		name     string
		req      *CreateChapterRequest
		wantSlug string
	}{
		{name: "derived from title", req: &CreateChapterRequest{Title: "Copper Pipework 101"}, wantSlug: "copper-pipework-101"},
		{name: "explicit slug kept", req: &CreateChapterRequest{Title: "Copper Pipework", Slug: "pipework"}, wantSlug: "pipework"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapter, err := svc.Create(ctx, course.ID, tt.req, "admin-1")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if chapter.Slug != tt.wantSlug {
				t.Errorf("Create() slug = %q, want %q", chapter.Slug, tt.wantSlug)
			}
		})
	}
}

func TestChapterServiceEvents(t *testing.T) {
	repo := newFakeRepository()
	pub := events.NewMockEventPublisher(testLogger())
	svc := NewChapterService(repo, testLogger(), validator.New(), pub, nil)
	ctx := context.Background()

	course := &models.Course{Title: "Plumbing", Slug: "plumbing"}
	repo.courses.Create(ctx, nil, course)

	chapter, err := svc.Create(ctx, course.ID, &CreateChapterRequest{Title: "Pipework"}, "admin-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Delete(ctx, chapter.ID, "admin-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{events.EventChapterCreated, events.EventChapterDeleted}
	if got := publishedEventTypes(pub); !reflect.DeepEqual(got, want) {
		t.Errorf("published events = %v, want %v", got, want)
	}
}

func TestChapterServiceCreateUnknownCourse(t *testing.T) {
	svc := newChapterServiceForTest(newFakeRepository())

	if _, err := svc.Create(context.Background(), 42, &CreateChapterRequest{Title: "Pipework"}, "admin-1"); err != ErrCourseNotFound {
		t.Fatalf("Create() error = %v, want ErrCourseNotFound", err)
	}
}

func TestChapterServiceDeleteBatchScopedToCourse(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()

	mine := &models.Course{Title: "Mine", Slug: "mine"}
	other := &models.Course{Title: "Other", Slug: "other"}
	repo.courses.Create(ctx, nil, mine)
	repo.courses.Create(ctx, nil, other)

	owned := &models.Chapter{CourseID: mine.ID, Title: "owned", OrderIndex: 1}
	foreign := &models.Chapter{CourseID: other.ID, Title: "foreign", OrderIndex: 1}
	repo.chapters.Create(ctx, nil, owned)
	repo.chapters.Create(ctx, nil, foreign)

	svc := newChapterServiceForTest(repo)

	resp, err := svc.DeleteBatch(ctx, mine.ID, []uint{owned.ID, foreign.ID}, "admin-1")
	if err != nil {
		t.Fatalf("DeleteBatch() error = %v", err)
	}
	if resp.Requested != 2 || resp.Deleted != 1 {
		t.Errorf("DeleteBatch() = requested %d deleted %d, want 2/1", resp.Requested, resp.Deleted)
	}
	if _, err := repo.chapters.GetByID(ctx, nil, foreign.ID); err != nil {
		t.Error("chapter of another course must not be deleted")
	}
}

func TestChapterServiceExportCSV(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	course := &models.Course{Title: "Health and Safety", Slug: "health-and-safety"}
	repo.courses.Create(ctx, nil, course)
	repo.chapters.Create(ctx, nil, &models.Chapter{CourseID: course.ID, Title: "Intro", Slug: "intro", OrderIndex: 1})

	svc := newChapterServiceForTest(repo)

	file, err := svc.ExportCSV(ctx, course.ID)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if file.Filename != "health_and_safety_chapters.csv" {
		t.Errorf("ExportCSV() filename = %q", file.Filename)
	}
	if file.ContentType != "text/csv" {
		t.Errorf("ExportCSV() content type = %q", file.ContentType)
	}
	if len(file.Data) == 0 {
		t.Error("ExportCSV() produced no data")
	}

	lines := strings.Split(string(file.Data), "\n")
	if !strings.Contains(lines[0], `"Slug"`) {
		t.Errorf("ExportCSV() header %q is missing the slug column", lines[0])
	}
	if !strings.Contains(lines[1], `"intro"`) {
		t.Errorf("ExportCSV() row %q is missing the chapter slug", lines[1])
	}
}

func intPtr(i int) *int { return &i }
