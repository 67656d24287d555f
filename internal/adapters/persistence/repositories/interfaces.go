package repositories

import (
	"context"

	"tefa-hub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	ListPaged(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// OrderRepository defines order repository interface.
// Put is an idempotent create-or-replace of the full record by id.
type OrderRepository interface {
	Put(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Order, error)
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines category repository interface
type CategoryRepository interface {
	Put(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ProjectTypeRepository defines project type repository interface
type ProjectTypeRepository interface {
	Put(ctx context.Context, pt *models.ProjectType) error
	GetByID(ctx context.Context, id string) (*models.ProjectType, error)
	GetByName(ctx context.Context, name string) (*models.ProjectType, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.ProjectType, error)
	Count(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}
