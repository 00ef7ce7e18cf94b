package service

import (
	"context"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"

	"github.com/google/uuid"
)

// Storage contracts the services depend on; implemented by the repository package.

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	FindActiveByName(ctx context.Context, name string, isCustom bool) (*models.Category, error)
	ListAll(ctx context.Context) ([]*models.Category, error)
	List(ctx context.Context, vis policy.Visibility) ([]*models.Category, error)
	Count(ctx context.Context, vis *policy.Visibility) (int64, error)
	Replace(ctx context.Context, c *models.Category) error
	AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.Category, error)
	Inactivate(ctx context.Context, id uuid.UUID) error
}

type SubCategoryStore interface {
	Create(ctx context.Context, s *models.SubCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	GetByName(ctx context.Context, name string) (*models.SubCategory, error)
	FindActiveByName(ctx context.Context, categoryID uuid.UUID, name string, isCustom bool) (*models.SubCategory, error)
	ListAll(ctx context.Context) ([]*models.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.SubCategory, error)
	List(ctx context.Context, vis policy.Visibility) ([]*models.SubCategory, error)
	Count(ctx context.Context, vis *policy.Visibility) (int64, error)
	Replace(ctx context.Context, s *models.SubCategory) error
	AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.SubCategory, error)
	Inactivate(ctx context.Context, id uuid.UUID) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
	ListAll(ctx context.Context) ([]*models.WalletTransaction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.WalletTransaction, error)
	Replace(ctx context.Context, tx *models.WalletTransaction) error
	Inactivate(ctx context.Context, id uuid.UUID) error
	NetAmount(ctx context.Context, userID string) (int64, error)
	TopSubCategories(ctx context.Context, userID string, limit int) ([]models.SubCategoryUsage, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AddRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
}
