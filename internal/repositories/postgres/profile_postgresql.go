package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *profileRepository) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return r.handleDBError(err, "create profile")
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	db := r.getDB(tx)
	var profile models.Profile

	if err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, r.handleDBError(err, "get profile by id")
	}

	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	db := r.getDB(tx)
	var profile models.Profile

	if err := db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, r.handleDBError(err, "get profile by email")
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(profile).Error; err != nil {
		return r.handleDBError(err, "update profile")
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Profile{}).Error; err != nil {
		return r.handleDBError(err, "delete profile")
	}
	return nil
}

func (r *profileRepository) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	result := db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Profile{})
	if result.Error != nil {
		return 0, r.handleDBError(result.Error, "delete profiles batch")
	}
	return result.RowsAffected, nil
}

// ===== QUERY OPERATIONS =====

func (r *profileRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	db := r.getDB(tx)
	var profiles []*models.Profile
	var total int64

	query := db.WithContext(ctx).Model(&models.Profile{})
	query = r.applyProfileFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count profiles")
	}

	query = r.applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list profiles")
	}

	return profiles, total, nil
}

func (r *profileRepository) Search(ctx context.Context, tx *gorm.DB, searchQuery string, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	q := searchQuery
	filters.Query = &q
	return r.List(ctx, tx, filters)
}

// ===== VALIDATION AND CHECKS =====

func (r *profileRepository) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check profile exists")
	}

	return count > 0, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check profile email")
	}

	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *profileRepository) getDB(tx *gorm.DB) *gorm.DB {
	return getDB(r.db, tx)
}

func (r *profileRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

func (r *profileRepository) applyProfileFilters(query *gorm.DB, filters repositories.ProfileFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != nil {
		search := "%" + *filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", search, search)
	}

	return query
}

func (r *profileRepository) applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	sortKeyToColumn := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"full_name":  "full_name",
		"email":      "email",
		"role":       "role",
	}

	return applyPaginationAndSorting(query, limit, offset, sortBy, sortOrder, sortKeyToColumn, "created_at", "DESC")
}
