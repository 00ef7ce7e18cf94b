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

type CategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type SubCategoryService struct {
	store      SubCategoryStore
	categories CategoryReader
	edit       policy.EditPolicy
	now        func() time.Time
	logger     *zap.Logger
}

func NewSubCategoryService(store SubCategoryStore, categories CategoryReader, edit policy.EditPolicy, logger *zap.Logger) *SubCategoryService {
	return &SubCategoryService{
		store:      store,
		categories: categories,
		edit:       edit,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *SubCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "subcategory", id)
	}
	return sc, nil
}

func (s *SubCategoryService) GetByName(ctx context.Context, name string) (*models.SubCategory, error) {
	sc, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "subcategory", name)
	}
	return sc, nil
}

func (s *SubCategoryService) ListForAdmin(ctx context.Context) ([]*models.SubCategory, error) {
	return s.store.ListAll(ctx)
}

// ListForUser returns the subcategories of categoryID visible to userID.
func (s *SubCategoryService) ListForUser(ctx context.Context, userID string, categoryID uuid.UUID) ([]*models.SubCategory, error) {
	return s.store.List(ctx, policy.VisibleTo(userID).Within(categoryID))
}

// List gives admins every subcategory, active or not, optionally narrowed to categoryID.
// Other callers must name the category they browse.
func (s *SubCategoryService) List(ctx context.Context, caller policy.Caller, categoryID uuid.UUID) ([]*models.SubCategory, error) {
	if caller.IsAdmin {
		if categoryID == uuid.Nil {
			return s.ListForAdmin(ctx)
		}
		return s.store.ListByCategory(ctx, categoryID)
	}
	if categoryID == uuid.Nil {
		return nil, invalid("category id is required")
	}
	return s.ListForUser(ctx, caller.UserID, categoryID)
}

func (s *SubCategoryService) Count(ctx context.Context, caller policy.Caller) (int64, error) {
	if caller.IsAdmin {
		return s.store.Count(ctx, nil)
	}
	vis := policy.VisibleTo(caller.UserID)
	return s.store.Count(ctx, &vis)
}

// Create adds a subcategory under a category the caller can see. Global names are unique per
// parent; custom ones are shared by joining the owner set.
func (s *SubCategoryService) Create(ctx context.Context, caller policy.Caller, categoryID uuid.UUID, name string, isCustom bool) (*models.SubCategory, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	parent, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, notFound(err, "category", categoryID)
	}
	if !s.parentAccessible(caller, parent) {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}

	if isCustom {
		return s.joinOrCreateCustom(ctx, caller, categoryID, name)
	}
	return s.createGlobal(ctx, categoryID, name)
}

func (s *SubCategoryService) parentAccessible(caller policy.Caller, parent *models.Category) bool {
	if !parent.IsActive {
		return false
	}
	return caller.IsAdmin || policy.VisibleTo(caller.UserID).Allows(parent)
}

func (s *SubCategoryService) createGlobal(ctx context.Context, categoryID uuid.UUID, name string) (*models.SubCategory, error) {
	_, err := s.store.FindActiveByName(ctx, categoryID, name, false)
	if err == nil {
		return nil, fmt.Errorf("subcategory %q: %w", name, ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sc := models.NewSubCategory(categoryID, name, false, "", s.now())
	if err := s.store.Create(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("subcategory %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	s.logger.Info("Subcategory created",
		zap.String("sub_category_id", sc.ID.String()),
		zap.String("category_id", categoryID.String()),
		zap.String("name", name),
	)
	return sc, nil
}

func (s *SubCategoryService) joinOrCreateCustom(ctx context.Context, caller policy.Caller, categoryID uuid.UUID, name string) (*models.SubCategory, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("custom subcategory without owner: %w", ErrPermissionDenied)
	}

	existing, err := s.store.FindActiveByName(ctx, categoryID, name, true)
	if err == nil {
		joined, err := s.store.AddOwner(ctx, existing.ID, caller.UserID)
		if err != nil {
			return nil, notFound(err, "subcategory", existing.ID)
		}
		s.logger.Info("Joined custom subcategory",
			zap.String("sub_category_id", joined.ID.String()),
			zap.String("user_id", caller.UserID),
		)
		return joined, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sc := models.NewSubCategory(categoryID, name, true, caller.UserID, s.now())
	if err := s.store.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	s.logger.Info("Custom subcategory created",
		zap.String("sub_category_id", sc.ID.String()),
		zap.String("user_id", caller.UserID),
	)
	return sc, nil
}

// Update renames an active subcategory.
func (s *SubCategoryService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, patch models.SubCategoryPatch) (*models.SubCategory, error) {
	sc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.IsActive {
		return nil, fmt.Errorf("subcategory %s is inactive: %w", id, ErrNotFound)
	}
	if !s.edit.Allows(caller, sc) {
		return nil, fmt.Errorf("subcategory %s: %w", id, ErrPermissionDenied)
	}

	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		sc.Name = name
	}
	sc.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("subcategory %q: %w", sc.Name, ErrConflict)
		}
		return nil, notFound(err, "subcategory", id)
	}

	s.logger.Info("Subcategory updated", zap.String("sub_category_id", id.String()), zap.String("user_id", caller.UserID))
	return sc, nil
}

func (s *SubCategoryService) Inactivate(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	sc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.edit.Allows(caller, sc) {
		return fmt.Errorf("subcategory %s: %w", id, ErrPermissionDenied)
	}
	if !sc.IsActive {
		return nil
	}

	if err := s.store.Inactivate(ctx, id); err != nil {
		return notFound(err, "subcategory", id)
	}

	s.logger.Info("Subcategory inactivated", zap.String("sub_category_id", id.String()), zap.String("user_id", caller.UserID))
	return nil
}
