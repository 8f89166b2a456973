package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
)

// CourseRepository handles course persistence. The tx parameter joins an
// outer transaction when non-nil.
type CourseRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	ListPublished(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters CourseFilters) ([]*models.Course, int64, error)

	// Validation and checks
	ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error)
}

type ChapterRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ChapterFilters) ([]*models.Chapter, int64, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Chapter, error)

	// Ordering
	MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uint) (int, error)
}

type NvqCategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.NvqCategory, error)
	Update(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error)
	List(ctx context.Context, tx *gorm.DB, filters NvqCategoryFilters) ([]*models.NvqCategory, int64, error)
	ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error)
}
