package service

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var (
	alice = policy.Caller{UserID: "alice"}
	bob   = policy.Caller{UserID: "bob"}
	admin = policy.Caller{UserID: "root", IsAdmin: true}

	fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) Create(ctx context.Context, c *models.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) FindActiveByName(ctx context.Context, name string, isCustom bool) (*models.Category, error) {
	args := m.Called(ctx, name, isCustom)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) ListAll(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) List(ctx context.Context, vis policy.Visibility) ([]*models.Category, error) {
	args := m.Called(ctx, vis)
	c, _ := args.Get(0).([]*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) Count(ctx context.Context, vis *policy.Visibility) (int64, error) {
	args := m.Called(ctx, vis)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryStore) Replace(ctx context.Context, c *models.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryStore) AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.Category, error) {
	args := m.Called(ctx, id, userID)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) Inactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSubCategoryStore struct {
	mock.Mock
}

func (m *mockSubCategoryStore) Create(ctx context.Context, s *models.SubCategory) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) GetByName(ctx context.Context, name string) (*models.SubCategory, error) {
	args := m.Called(ctx, name)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) FindActiveByName(ctx context.Context, categoryID uuid.UUID, name string, isCustom bool) (*models.SubCategory, error) {
	args := m.Called(ctx, categoryID, name, isCustom)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) ListAll(ctx context.Context) ([]*models.SubCategory, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.SubCategory, error) {
	args := m.Called(ctx, categoryID)
	s, _ := args.Get(0).([]*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) List(ctx context.Context, vis policy.Visibility) ([]*models.SubCategory, error) {
	args := m.Called(ctx, vis)
	s, _ := args.Get(0).([]*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) Count(ctx context.Context, vis *policy.Visibility) (int64, error) {
	args := m.Called(ctx, vis)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSubCategoryStore) Replace(ctx context.Context, s *models.SubCategory) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubCategoryStore) AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.SubCategory, error) {
	args := m.Called(ctx, id, userID)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockSubCategoryStore) Inactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockTransactionStore struct {
	mock.Mock
}

func (m *mockTransactionStore) Create(ctx context.Context, tx *models.WalletTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockTransactionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*models.WalletTransaction)
	return tx, args.Error(1)
}

func (m *mockTransactionStore) ListAll(ctx context.Context) ([]*models.WalletTransaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]*models.WalletTransaction)
	return txs, args.Error(1)
}

func (m *mockTransactionStore) ListByUser(ctx context.Context, userID string) ([]*models.WalletTransaction, error) {
	args := m.Called(ctx, userID)
	txs, _ := args.Get(0).([]*models.WalletTransaction)
	return txs, args.Error(1)
}

func (m *mockTransactionStore) Replace(ctx context.Context, tx *models.WalletTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockTransactionStore) Inactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTransactionStore) NetAmount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionStore) TopSubCategories(ctx context.Context, userID string, limit int) ([]models.SubCategoryUsage, error) {
	args := m.Called(ctx, userID, limit)
	u, _ := args.Get(0).([]models.SubCategoryUsage)
	return u, args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) AddRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, id, role)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newCategoryService(t *testing.T, edit policy.EditPolicy) (*CategoryService, *mockCategoryStore) {
	t.Helper()
	store := new(mockCategoryStore)
	svc := NewCategoryService(store, edit, zap.NewNop())
	svc.now = fixedClock
	t.Cleanup(func() { store.AssertExpectations(t) })
	return svc, store
}

func newSubCategoryService(t *testing.T, edit policy.EditPolicy) (*SubCategoryService, *mockSubCategoryStore, *mockCategoryStore) {
	t.Helper()
	store := new(mockSubCategoryStore)
	categories := new(mockCategoryStore)
	svc := NewSubCategoryService(store, categories, edit, zap.NewNop())
	svc.now = fixedClock
	t.Cleanup(func() {
		store.AssertExpectations(t)
		categories.AssertExpectations(t)
	})
	return svc, store, categories
}

func newTransactionService(t *testing.T, edit policy.EditPolicy, owner policy.OwnerOnUpdate) (*TransactionService, *mockTransactionStore, *mockSubCategoryStore) {
	t.Helper()
	store := new(mockTransactionStore)
	subCategories := new(mockSubCategoryStore)
	svc := NewTransactionService(store, subCategories, edit, owner, zap.NewNop())
	svc.now = fixedClock
	t.Cleanup(func() {
		store.AssertExpectations(t)
		subCategories.AssertExpectations(t)
	})
	return svc, store, subCategories
}
