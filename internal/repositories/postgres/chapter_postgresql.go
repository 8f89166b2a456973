package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) repositories.ChapterRepository {
	return &chapterRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *chapterRepository) Create(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(chapter).Error; err != nil {
		return r.handleDBError(err, "create chapter")
	}
	return nil
}

func (r *chapterRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error) {
	db := r.getDB(tx)
	var chapter models.Chapter

	if err := db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		return nil, r.handleDBError(err, "get chapter by id")
	}

	return &chapter, nil
}

func (r *chapterRepository) Update(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(chapter).Error; err != nil {
		return r.handleDBError(err, "update chapter")
	}
	return nil
}

func (r *chapterRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Chapter{}, id).Error; err != nil {
		return r.handleDBError(err, "delete chapter")
	}
	return nil
}

func (r *chapterRepository) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	result := db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Chapter{})
	if result.Error != nil {
		return 0, r.handleDBError(result.Error, "delete chapters batch")
	}
	return result.RowsAffected, nil
}

// ===== QUERY OPERATIONS =====

func (r *chapterRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ChapterFilters) ([]*models.Chapter, int64, error) {
	db := r.getDB(tx)
	var chapters []*models.Chapter
	var total int64

	query := db.WithContext(ctx).Model(&models.Chapter{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Query != nil {
		query = query.Where("title ILIKE ?", "%"+*filters.Query+"%")
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count chapters")
	}

	// Apply pagination and sorting
	query = r.applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&chapters).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list chapters")
	}

	return chapters, total, nil
}

func (r *chapterRepository) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Chapter, error) {
	db := r.getDB(tx)
	var chapters []*models.Chapter

	if err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&chapters).Error; err != nil {
		return nil, r.handleDBError(err, "get chapters by course")
	}

	return chapters, nil
}

func (r *chapterRepository) MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	db := r.getDB(tx)
	var maxOrder *int

	if err := db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&maxOrder).Error; err != nil {
		return 0, r.handleDBError(err, "get max chapter order")
	}

	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder, nil
}

// ===== HELPER METHODS =====

func (r *chapterRepository) getDB(tx *gorm.DB) *gorm.DB {
	return getDB(r.db, tx)
}

func (r *chapterRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

func (r *chapterRepository) applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	sortKeyToColumn := map[string]string{
		"order_index": "order_index",
		"title":       "title",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
		"id":          "id",
	}

	// Chapters read in course order by default
	return applyPaginationAndSorting(query, limit, offset, sortBy, sortOrder, sortKeyToColumn, "order_index", "ASC")
}
