package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/models"
)

// ProfileRepository stores the local mirror of identity provider accounts.
type ProfileRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteBatch(ctx context.Context, tx *gorm.DB, ids []string) (int64, error)

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters ProfileFilters) ([]*models.Profile, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters ProfileFilters) ([]*models.Profile, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

// IdentityRepository talks to the hosted identity provider. It is not part
// of our transaction boundary; every call is a remote operation.
type IdentityRepository interface {
	// Account lifecycle
	SignUp(ctx context.Context, email, password, name string, role models.UserRole) (string, error)
	UpdateUser(ctx context.Context, profile *models.Profile) error
	DeleteUser(ctx context.Context, id string) error
	ResendVerification(ctx context.Context, id string) error

	// Read operations (cached)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)

	// Token handling for the login flow
	ExchangeToken(ctx context.Context, code, state string) (string, error)
	ParseToken(token string) (*models.Profile, error)
}
