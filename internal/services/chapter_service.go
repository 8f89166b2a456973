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

type chapterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
}

func NewChapterService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) ChapterService {
	return &chapterService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create appends a chapter to a course. When no order is given the chapter
// goes after the current highest order index, starting at 1 for an empty
// course.
func (s *chapterService) Create(ctx context.Context, courseID uint, req *CreateChapterRequest, userID string) (*models.Chapter, error) {
	s.logger.Info("Creating chapter", "course_id", courseID, "title", req.Title)

	if errors := s.validator.GetBusinessValidator().ValidateChapterCreate(req); len(errors) > 0 {
		return nil, errors
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = validator.DeriveSlug(req.Title)
	}

	var chapter *models.Chapter
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		orderIndex := 0
		if req.OrderIndex != nil {
			orderIndex = *req.OrderIndex
		} else {
			maxOrder, err := r.Chapter().MaxOrderIndex(ctx, nil, courseID)
			if err != nil {
				return fmt.Errorf("failed to resolve chapter order: %w", err)
			}
			orderIndex = maxOrder + 1
		}

		chapter = &models.Chapter{
			CourseID:   courseID,
			Title:      req.Title,
			Slug:       slug,
			Content:    req.Content,
			OrderIndex: orderIndex,
			VideoURL:   req.VideoURL,
		}

		return r.Chapter().Create(ctx, nil, chapter)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.invalidateCourseCaches(ctx, courseID)
	s.publishEvent(ctx, events.EventChapterCreated, map[string]interface{}{
		"chapter_id": chapter.ID,
		"course_id":  courseID,
		"created_by": userID,
	})

	s.logger.Info("Chapter created successfully", "chapter_id", chapter.ID, "order_index", chapter.OrderIndex)
	return chapter, nil
}

func (s *chapterService) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) Update(ctx context.Context, id uint, req *UpdateChapterRequest, userID string) (*models.Chapter, error) {
	s.logger.Info("Updating chapter", "chapter_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.Slug != nil {
		chapter.Slug = *req.Slug
	}
	if req.Content != nil {
		chapter.Content = req.Content
	}
	if req.OrderIndex != nil {
		chapter.OrderIndex = *req.OrderIndex
	}
	if req.VideoURL != nil {
		chapter.VideoURL = req.VideoURL
	}

	if err := s.repo.Chapter().Update(ctx, nil, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	s.invalidateCourseCaches(ctx, chapter.CourseID)
	s.publishEvent(ctx, events.EventChapterUpdated, map[string]interface{}{
		"chapter_id": id,
		"course_id":  chapter.CourseID,
		"updated_by": userID,
	})

	return chapter, nil
}

func (s *chapterService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting chapter", "chapter_id", id, "user_id", userID)

	chapter, err := s.repo.Chapter().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("failed to get chapter: %w", err)
	}

	if err := s.repo.Chapter().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}

	s.invalidateCourseCaches(ctx, chapter.CourseID)
	s.publishEvent(ctx, events.EventChapterDeleted, map[string]interface{}{
		"chapter_id": id,
		"course_id":  chapter.CourseID,
		"deleted_by": userID,
	})

	return nil
}

// DeleteBatch removes the selected chapters of one course in a single
// transaction. Ids belonging to other courses are ignored.
func (s *chapterService) DeleteBatch(ctx context.Context, courseID uint, ids []uint, userID string) (*BulkDeleteResponse, error) {
	s.logger.Info("Bulk deleting chapters", "course_id", courseID, "count", len(ids))

	if len(ids) == 0 {
		return &BulkDeleteResponse{Requested: 0, Deleted: 0}, nil
	}

	var deleted int64
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		existing, err := r.Chapter().GetByCourse(ctx, nil, courseID)
		if err != nil {
			return fmt.Errorf("failed to load course chapters: %w", err)
		}

		owned := make(map[uint]bool, len(existing))
		for _, ch := range existing {
			owned[ch.ID] = true
		}

		scoped := make([]uint, 0, len(ids))
		for _, id := range ids {
			if owned[id] {
				scoped = append(scoped, id)
			}
		}
		if len(scoped) == 0 {
			return nil
		}

		deleted, err = r.Chapter().DeleteBatch(ctx, nil, scoped)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk delete chapters: %w", err)
	}

	s.invalidateCourseCaches(ctx, courseID)
	s.publishEvent(ctx, events.EventChapterDeleted, map[string]interface{}{
		"chapter_ids": ids,
		"course_id":   courseID,
		"deleted_by":  userID,
	})

	return &BulkDeleteResponse{Requested: len(ids), Deleted: deleted}, nil
}

// ===== LIST OPERATIONS =====

func (s *chapterService) ListByCourse(ctx context.Context, courseID uint) (*ChapterListResponse, error) {
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	chapters, err := s.repo.Chapter().GetByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course chapters: %w", err)
	}

	return &ChapterListResponse{Chapters: chapters, Total: int64(len(chapters))}, nil
}

func (s *chapterService) List(ctx context.Context, filters repositories.ChapterFilters) (*ChapterListResponse, error) {
	chapters, total, err := s.repo.Chapter().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return &ChapterListResponse{Chapters: chapters, Total: total}, nil
}

// ===== EXPORT OPERATIONS =====

// ExportCSV renders a course's chapter list. The filename is derived from
// the course title, e.g. "Health and Safety" becomes
// "health_and_safety_chapters.csv".
func (s *chapterService) ExportCSV(ctx context.Context, courseID uint) (*ExportFile, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	chapters, err := s.repo.Chapter().GetByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapters for export: %w", err)
	}

	headers := []string{"ID", "Title", "Slug", "Order", "Video URL", "Created At"}
	rows := make([][]string, 0, len(chapters))
	for _, ch := range chapters {
		videoURL := ""
		if ch.VideoURL != nil {
			videoURL = *ch.VideoURL
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(ch.ID), 10),
			ch.Title,
			ch.Slug,
			strconv.Itoa(ch.OrderIndex),
			videoURL,
			ch.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return &ExportFile{
		Filename:    export.CSVFilename(course.Title, "_chapters.csv"),
		ContentType: "text/csv",
		Data:        export.WriteCSV(headers, rows),
	}, nil
}

// ===== HELPER METHODS =====

func (s *chapterService) invalidateCourseCaches(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	cache.InvalidateCourseCache(ctx, s.cache, courseID)
}

func (s *chapterService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
