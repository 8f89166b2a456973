package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type nvqCategoryRepository struct {
	db *gorm.DB
}

func NewNvqCategoryRepository(db *gorm.DB) repositories.NvqCategoryRepository {
	return &nvqCategoryRepository{db: db}
}

func (r *nvqCategoryRepository) Create(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(category).Error; err != nil {
		return r.handleDBError(err, "create nvq category")
	}
	return nil
}

func (r *nvqCategoryRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.NvqCategory, error) {
	db := r.getDB(tx)
	var category models.NvqCategory

	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, r.handleDBError(err, "get nvq category by id")
	}

	return &category, nil
}

func (r *nvqCategoryRepository) Update(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(category).Error; err != nil {
		return r.handleDBError(err, "update nvq category")
	}
	return nil
}

func (r *nvqCategoryRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.NvqCategory{}, id).Error; err != nil {
		return r.handleDBError(err, "delete nvq category")
	}
	return nil
}

func (r *nvqCategoryRepository) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.NvqCategory{}, ids)
	if result.Error != nil {
		return 0, r.handleDBError(result.Error, "delete nvq categories batch")
	}

	return result.RowsAffected, nil
}

func (r *nvqCategoryRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.NvqCategoryFilters) ([]*models.NvqCategory, int64, error) {
	db := r.getDB(tx)
	var categories []*models.NvqCategory
	var total int64

	query := db.WithContext(ctx).Model(&models.NvqCategory{})

	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.Query != nil {
		query = query.Where("name ILIKE ?", "%"+*filters.Query+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count nvq categories")
	}

	sortKeyToColumn := map[string]string{
		"name":       "name",
		"level":      "level",
		"created_at": "created_at",
		"id":         "id",
	}
	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, sortKeyToColumn, "level", "ASC")

	if err := query.Find(&categories).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list nvq categories")
	}

	return categories, total, nil
}

func (r *nvqCategoryRepository) ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.NvqCategory{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check nvq category slug")
	}

	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *nvqCategoryRepository) getDB(tx *gorm.DB) *gorm.DB {
	return getDB(r.db, tx)
}

func (r *nvqCategoryRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
