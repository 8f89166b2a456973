package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

type nvqCategoryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNvqCategoryService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) NvqCategoryService {
	return &nvqCategoryService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *nvqCategoryService) Create(ctx context.Context, req *CreateNvqCategoryRequest, userID string) (*models.NvqCategory, error) {
	s.logger.Info("Creating NVQ category", "name", req.Name, "level", req.Level)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = validator.DeriveSlug(req.Name)
	}

	taken, err := s.repo.NvqCategory().ExistsBySlug(ctx, nil, slug, 0)
	if err != nil {
		return nil, fmt.Errorf("slug check failed: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	category := &models.NvqCategory{
		Name:        req.Name,
		Slug:        slug,
		Level:       req.Level,
		Description: req.Description,
	}

	if err := s.repo.NvqCategory().Create(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to create nvq category: %w", err)
	}

	return category, nil
}

func (s *nvqCategoryService) GetByID(ctx context.Context, id uint) (*models.NvqCategory, error) {
	category, err := s.repo.NvqCategory().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get nvq category: %w", err)
	}
	return category, nil
}

func (s *nvqCategoryService) Update(ctx context.Context, id uint, req *UpdateNvqCategoryRequest, userID string) (*models.NvqCategory, error) {
	s.logger.Info("Updating NVQ category", "category_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	category, err := s.repo.NvqCategory().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get nvq category: %w", err)
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		taken, err := s.repo.NvqCategory().ExistsBySlug(ctx, nil, *req.Slug, id)
		if err != nil {
			return nil, fmt.Errorf("slug check failed: %w", err)
		}
		if taken {
			return nil, ErrSlugTaken
		}
		category.Slug = *req.Slug
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Level != nil {
		category.Level = *req.Level
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := s.repo.NvqCategory().Update(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to update nvq category: %w", err)
	}

	return category, nil
}

func (s *nvqCategoryService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting NVQ category", "category_id", id, "user_id", userID)

	if _, err := s.repo.NvqCategory().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get nvq category: %w", err)
	}

	// Courses keep their category id; the association simply dangles until
	// the course is re-categorised.
	if err := s.repo.NvqCategory().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete nvq category: %w", err)
	}

	return nil
}

func (s *nvqCategoryService) DeleteBatch(ctx context.Context, ids []uint, userID string) (*BulkDeleteResponse, error) {
	s.logger.Info("Bulk deleting NVQ categories", "count", len(ids), "user_id", userID)

	if len(ids) == 0 {
		return &BulkDeleteResponse{Requested: 0, Deleted: 0}, nil
	}

	var deleted int64
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		var txErr error
		deleted, txErr = r.NvqCategory().DeleteBatch(ctx, nil, ids)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk delete nvq categories: %w", err)
	}

	return &BulkDeleteResponse{Requested: len(ids), Deleted: deleted}, nil
}

func (s *nvqCategoryService) List(ctx context.Context, filters repositories.NvqCategoryFilters) (*NvqCategoryListResponse, error) {
	categories, total, err := s.repo.NvqCategory().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list nvq categories: %w", err)
	}
	return &NvqCategoryListResponse{Categories: categories, Total: total}, nil
}
