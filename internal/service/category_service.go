package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService struct {
	store  CategoryStore
	edit   policy.EditPolicy
	now    func() time.Time
	logger *zap.Logger
}

func NewCategoryService(store CategoryStore, edit policy.EditPolicy, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		edit:   edit,
		now:    time.Now,
		logger: logger,
	}
}

// GetByID ignores visibility and state so references can always be checked.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return c, nil
}

// GetByName returns the first category created with the name.
func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "category", name)
	}
	return c, nil
}

func (s *CategoryService) ListForAdmin(ctx context.Context) ([]*models.Category, error) {
	return s.store.ListAll(ctx)
}

func (s *CategoryService) ListForUser(ctx context.Context, userID string) ([]*models.Category, error) {
	return s.store.List(ctx, policy.VisibleTo(userID))
}

// List picks the admin listing for admins and the visible set for everyone else.
func (s *CategoryService) List(ctx context.Context, caller policy.Caller) ([]*models.Category, error) {
	if caller.IsAdmin {
		return s.ListForAdmin(ctx)
	}
	return s.ListForUser(ctx, caller.UserID)
}

func (s *CategoryService) Count(ctx context.Context, caller policy.Caller) (int64, error) {
	if caller.IsAdmin {
		return s.store.Count(ctx, nil)
	}
	vis := policy.VisibleTo(caller.UserID)
	return s.store.Count(ctx, &vis)
}

// Create adds a global category, or for isCustom joins the caller to the custom category of that
// name, creating it when there is none.
func (s *CategoryService) Create(ctx context.Context, caller policy.Caller, name string, isCustom bool) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if isCustom {
		return s.joinOrCreateCustom(ctx, caller, name)
	}
	return s.createGlobal(ctx, name)
}

func (s *CategoryService) createGlobal(ctx context.Context, name string) (*models.Category, error) {
	_, err := s.store.FindActiveByName(ctx, name, false)
	if err == nil {
		return nil, fmt.Errorf("category %q: %w", name, ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	c := models.NewCategory(name, false, "", s.now())
	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("category %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", zap.String("category_id", c.ID.String()), zap.String("name", name))
	return c, nil
}

func (s *CategoryService) joinOrCreateCustom(ctx context.Context, caller policy.Caller, name string) (*models.Category, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("custom category without owner: %w", ErrPermissionDenied)
	}

	existing, err := s.store.FindActiveByName(ctx, name, true)
	if err == nil {
		joined, err := s.store.AddOwner(ctx, existing.ID, caller.UserID)
		if err != nil {
			return nil, notFound(err, "category", existing.ID)
		}
		s.logger.Info("Joined custom category",
			zap.String("category_id", joined.ID.String()),
			zap.String("user_id", caller.UserID),
			zap.Int("owners", len(joined.UserIDsCustom)),
		)
		return joined, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// concurrent first creates may leave two same-name custom records; both stay valid
	c := models.NewCategory(name, true, caller.UserID, s.now())
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Custom category created", zap.String("category_id", c.ID.String()), zap.String("user_id", caller.UserID))
	return c, nil
}

// Update applies the set fields of patch to an active category. IsActive can only be switched off.
func (s *CategoryService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	c, err := s.editable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		c.Name = name
	}
	if patch.IsCustom != nil && *patch.IsCustom != c.IsCustom {
		c.IsCustom = *patch.IsCustom
		switch {
		case !c.IsCustom:
			c.UserIDsCustom = []string{}
		case len(c.UserIDsCustom) == 0:
			c.UserIDsCustom = []string{caller.UserID}
		}
	}
	if patch.IsActive != nil && !*patch.IsActive {
		c.IsActive = false
	}
	c.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("category %q: %w", c.Name, ErrConflict)
		}
		return nil, notFound(err, "category", id)
	}

	s.logger.Info("Category updated", zap.String("category_id", id.String()), zap.String("user_id", caller.UserID))
	return c, nil
}

// Inactivate soft-deletes the category. Inactivating twice is a no-op.
func (s *CategoryService) Inactivate(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.edit.Allows(caller, c) {
		return fmt.Errorf("category %s: %w", id, ErrPermissionDenied)
	}
	if !c.IsActive {
		return nil
	}

	if err := s.store.Inactivate(ctx, id); err != nil {
		return notFound(err, "category", id)
	}

	s.logger.Info("Category inactivated", zap.String("category_id", id.String()), zap.String("user_id", caller.UserID))
	return nil
}

func (s *CategoryService) editable(ctx context.Context, caller policy.Caller, id uuid.UUID) (*models.Category, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, fmt.Errorf("category %s is inactive: %w", id, ErrNotFound)
	}
	if !s.edit.Allows(caller, c) {
		return nil, fmt.Errorf("category %s: %w", id, ErrPermissionDenied)
	}
	return c, nil
}
