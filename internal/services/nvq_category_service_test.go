package services

import (
	"context"
	"errors"
	"testing"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/validator"
)

func newCategoryServiceForTest(repo *fakeRepository) NvqCategoryService {
	return NewNvqCategoryService(repo, testLogger(), validator.New())
}

func TestNvqCategoryServiceCreateSlug(t *testing.T) {
	tests := []struct {
		name     string
		req      *CreateNvqCategoryRequest
		seed     *models.NvqCategory
		wantSlug string
		wantErr  error
	}{
		{
			name:     "slug derived from name",
			req:      &CreateNvqCategoryRequest{Name: "Plumbing & Heating", Level: 2},
			wantSlug: "plumbing-heating",
		},
		{
			name:     "explicit slug kept",
			req:      &CreateNvqCategoryRequest{Name: "Plumbing & Heating", Slug: "plumbing", Level: 2},
			wantSlug: "plumbing",
		},
		{
			name:    "derived slug already taken",
			req:     &CreateNvqCategoryRequest{Name: "Plumbing & Heating", Level: 2},
			seed:    &models.NvqCategory{Name: "Other", Slug: "plumbing-heating", Level: 3},
			wantErr: ErrSlugTaken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			if tt.seed != nil {
				repo.categories.Create(context.Background(), nil, tt.seed)
			}
			svc := newCategoryServiceForTest(repo)

			category, err := svc.Create(context.Background(), tt.req, "admin-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if category.Slug != tt.wantSlug {
				t.Errorf("Create() slug = %q, want %q", category.Slug, tt.wantSlug)
			}
		})
	}
}

func TestNvqCategoryServiceUpdateSlugConflict(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()

	first := &models.NvqCategory{Name: "Plumbing", Slug: "plumbing", Level: 2}
	second := &models.NvqCategory{Name: "Heating", Slug: "heating", Level: 3}
	repo.categories.Create(ctx, nil, first)
	repo.categories.Create(ctx, nil, second)

	svc := newCategoryServiceForTest(repo)

	taken := "plumbing"
	if _, err := svc.Update(ctx, second.ID, &UpdateNvqCategoryRequest{Slug: &taken}, "admin-1"); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("Update() error = %v, want ErrSlugTaken", err)
	}

	free := "central-heating"
	updated, err := svc.Update(ctx, second.ID, &UpdateNvqCategoryRequest{Slug: &free}, "admin-1")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Slug != free {
		t.Errorf("Update() slug = %q, want %q", updated.Slug, free)
	}
}
