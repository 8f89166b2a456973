package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/OK4UK/academy-service/internal/cache"
	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/export"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, creatorID string) (*models.Course, error) {
	s.logger.Info("Creating course", "creator_id", creatorID, "title", req.Title)

	// Validate request with business rules
	if errors := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errors) > 0 {
		return nil, errors
	}

	slug := req.Slug
	if slug == "" {
		slug = validator.DeriveSlug(req.Title)
	}

	taken, err := s.repo.Course().ExistsBySlug(ctx, nil, slug, 0)
	if err != nil {
		return nil, fmt.Errorf("slug check failed: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	status := req.Status
	if status == "" {
		status = models.CourseDraft
	}

	course := &models.Course{
		Title:            req.Title,
		Slug:             slug,
		Description:      req.Description,
		Price:            req.Price,
		Status:           status,
		NvqCategoryID:    req.NvqCategoryID,
		Level:            req.Level,
		DurationMinutes:  req.DurationMinutes,
		FeaturedImageURL: req.FeaturedImageURL,
		CreatedBy:        creatorID,
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.invalidateCourseCaches(ctx, course.ID)
	s.publishEvent(ctx, events.EventCourseCreated, map[string]interface{}{
		"course_id": course.ID,
		"slug":      course.Slug,
		"creator":   creatorID,
	})

	s.logger.Info("Course created successfully", "course_id", course.ID, "slug", course.Slug)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	course, err := s.repo.Course().GetBySlug(ctx, nil, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by slug: %w", err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID string) (*models.Course, error) {
	s.logger.Info("Updating course", "course_id", id, "user_id", userID)

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if errors := s.validator.GetBusinessValidator().ValidateCourseUpdate(req, course); len(errors) > 0 {
		return nil, errors
	}

	if req.Status != nil {
		if errors := s.validator.GetBusinessValidator().ValidateStatusTransition(course.Status, *req.Status); len(errors) > 0 {
			return nil, errors
		}
	}

	if req.Slug != nil && *req.Slug != course.Slug {
		taken, err := s.repo.Course().ExistsBySlug(ctx, nil, *req.Slug, id)
		if err != nil {
			return nil, fmt.Errorf("slug check failed: %w", err)
		}
		if taken {
			return nil, ErrSlugTaken
		}
	}

	s.applyCourseUpdates(course, req)

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidateCourseCaches(ctx, id)
	s.publishEvent(ctx, events.EventCourseUpdated, map[string]interface{}{
		"course_id":  id,
		"updated_by": userID,
	})

	s.logger.Info("Course updated successfully", "course_id", id)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting course", "course_id", id, "user_id", userID)

	if _, err := s.repo.Course().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	activeStatus := models.EnrollmentActive
	_, active, err := s.repo.Enrollment().List(ctx, nil, repositories.EnrollmentFilters{
		CourseID: &id,
		Status:   &activeStatus,
		Limit:    1,
	})
	if err != nil {
		return fmt.Errorf("enrollment check failed: %w", err)
	}
	if active > 0 {
		return ErrCourseNotDeletable
	}

	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.invalidateCourseCaches(ctx, id)
	s.publishEvent(ctx, events.EventCourseDeleted, map[string]interface{}{
		"course_id":  id,
		"deleted_by": userID,
	})

	s.logger.Info("Course deleted successfully", "course_id", id)
	return nil
}

// DeleteBatch removes exactly the requested courses. The response reports
// how many rows the database actually removed so callers can detect drift
// between their selection and current state.
func (s *courseService) DeleteBatch(ctx context.Context, ids []uint, userID string) (*BulkDeleteResponse, error) {
	s.logger.Info("Bulk deleting courses", "count", len(ids), "user_id", userID)

	if len(ids) == 0 {
		return &BulkDeleteResponse{Requested: 0, Deleted: 0}, nil
	}

	var deleted int64
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		var txErr error
		deleted, txErr = r.Course().DeleteBatch(ctx, nil, ids)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk delete courses: %w", err)
	}

	for _, id := range ids {
		s.invalidateCourseCaches(ctx, id)
	}
	s.publishEvent(ctx, events.EventCourseDeleted, map[string]interface{}{
		"course_ids": ids,
		"deleted_by": userID,
	})

	return &BulkDeleteResponse{Requested: len(ids), Deleted: deleted}, nil
}

// BulkAction dispatches named multi-row operations from the course table.
// Delete is handled by DeleteBatch; everything else the table can request
// is surfaced but not yet supported.
func (s *courseService) BulkAction(ctx context.Context, action string, ids []uint, userID string) error {
	switch action {
	case "delete":
		_, err := s.DeleteBatch(ctx, ids, userID)
		return err
	case "publish", "archive", "duplicate":
		return NewNotImplementedError("courses.bulk." + action)
	default:
		return NewNotImplementedError("courses.bulk." + action)
	}
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return &CourseListResponse{Courses: courses, Total: total}, nil
}

func (s *courseService) ListPublished(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().ListPublished(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list published courses: %w", err)
	}
	return &CourseListResponse{Courses: courses, Total: total}, nil
}

func (s *courseService) Search(ctx context.Context, query string, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return &CourseListResponse{Courses: courses, Total: total}, nil
}

// ===== EXPORT OPERATIONS =====

var courseExportHeaders = []string{"ID", "Title", "Slug", "Price", "Status", "NVQ Category", "Created At"}

func (s *courseService) ExportCSV(ctx context.Context, filters repositories.CourseFilters) (*ExportFile, error) {
	rows, err := s.exportRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    "courses.csv",
		ContentType: "text/csv",
		Data:        export.WriteCSV(courseExportHeaders, rows),
	}, nil
}

func (s *courseService) ExportXLSX(ctx context.Context, filters repositories.CourseFilters) (*ExportFile, error) {
	rows, err := s.exportRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	data, err := export.WriteXLSX("Courses", courseExportHeaders, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build xlsx export: %w", err)
	}

	return &ExportFile{
		Filename:    "courses.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// ===== HELPER METHODS =====

func (s *courseService) exportRows(ctx context.Context, filters repositories.CourseFilters) ([][]string, error) {
	// Exports cover the whole filtered set, not the current page.
	filters.Limit = 0
	filters.Offset = 0

	courses, _, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses for export: %w", err)
	}

	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		category := ""
		if c.NvqCategory != nil {
			category = c.NvqCategory.Name
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Title,
			c.Slug,
			strconv.FormatFloat(c.Price, 'f', 2, 64),
			string(c.Status),
			category,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

func (s *courseService) applyCourseUpdates(course *models.Course, req *UpdateCourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Slug != nil {
		course.Slug = *req.Slug
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.NvqCategoryID != nil {
		course.NvqCategoryID = req.NvqCategoryID
	}
	if req.Level != nil {
		course.Level = req.Level
	}
	if req.DurationMinutes != nil {
		course.DurationMinutes = req.DurationMinutes
	}
	if req.FeaturedImageURL != nil {
		course.FeaturedImageURL = req.FeaturedImageURL
	}
}

func (s *courseService) invalidateCourseCaches(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	cache.InvalidateCourseCache(ctx, s.cache, courseID)
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
