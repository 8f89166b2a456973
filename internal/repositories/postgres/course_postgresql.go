package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *courseRepository) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return r.handleDBError(err, "create course")
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course

	if err := db.WithContext(ctx).
		Preload("NvqCategory").
		First(&course, id).Error; err != nil {
		return nil, r.handleDBError(err, "get course by id")
	}

	return &course, nil
}

func (r *courseRepository) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course

	if err := db.WithContext(ctx).
		Preload("NvqCategory").
		Where("slug = ?", slug).
		First(&course).Error; err != nil {
		return nil, r.handleDBError(err, "get course by slug")
	}

	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return r.handleDBError(err, "update course")
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return r.handleDBError(err, "delete course")
	}
	return nil
}

func (r *courseRepository) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	result := db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Course{})
	if result.Error != nil {
		return 0, r.handleDBError(result.Error, "delete courses batch")
	}
	return result.RowsAffected, nil
}

// ===== QUERY OPERATIONS =====

func (r *courseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{}).Preload("NvqCategory")

	// Apply filters
	query = r.applyCourseFilters(query, filters)

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count courses")
	}

	// Apply pagination and sorting
	query = r.applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *courseRepository) ListPublished(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	status := models.CoursePublished
	filters.Status = &status
	return r.List(ctx, tx, filters)
}

func (r *courseRepository) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	searchQuery := "%" + query + "%"

	db := r.getDB(tx)
	var courses []*models.Course
	var total int64

	dbQuery := db.WithContext(ctx).Model(&models.Course{}).
		Where("title ILIKE ? OR description ILIKE ?", searchQuery, searchQuery).
		Preload("NvqCategory")

	// Apply filters
	dbQuery = r.applyCourseFilters(dbQuery, filters)

	// Count total
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count search results")
	}

	// Apply pagination and sorting
	dbQuery = r.applyPaginationAndSorting(dbQuery, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := dbQuery.Find(&courses).Error; err != nil {
		return nil, 0, r.handleDBError(err, "search courses")
	}

	return courses, total, nil
}

func (r *courseRepository) ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.Course{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check course slug")
	}

	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *courseRepository) getDB(tx *gorm.DB) *gorm.DB {
	return getDB(r.db, tx)
}

func (r *courseRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

func (r *courseRepository) applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.NvqCategoryID != nil {
		query = query.Where("nvq_category_id = ?", *filters.NvqCategoryID)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Query != nil {
		query = query.Where("title ILIKE ?", "%"+*filters.Query+"%")
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	return query
}

func (r *courseRepository) applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	// Whitelist allowed sort columns: map API keys to SQL identifiers
	sortKeyToColumn := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "title",
		"price":      "price",
		"status":     "status",
		"id":         "id",
	}

	return applyPaginationAndSorting(query, limit, offset, sortBy, sortOrder, sortKeyToColumn, "created_at", "DESC")
}
