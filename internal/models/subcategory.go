package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type SubCategory struct {
	ID            uuid.UUID `db:"id"`
	CategoryID    uuid.UUID `db:"category_id"`
	Name          string    `db:"name"`
	IsCustom      bool      `db:"is_custom"`
	IsActive      bool      `db:"is_active"`
	UserIDsCustom []string  `db:"user_ids_custom"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func NewSubCategory(categoryID uuid.UUID, name string, isCustom bool, ownerID string, now time.Time) *SubCategory {
	return &SubCategory{
		ID:            uuid.New(),
		CategoryID:    categoryID,
		Name:          name,
		IsCustom:      isCustom,
		IsActive:      true,
		UserIDsCustom: initialOwners(isCustom, ownerID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *SubCategory) Custom() bool        { return s.IsCustom }
func (s *SubCategory) Active() bool        { return s.IsActive }
func (s *SubCategory) ParentID() uuid.UUID { return s.CategoryID }

func (s *SubCategory) OwnedBy(userID string) bool {
	return s.IsCustom && slices.Contains(s.UserIDsCustom, userID)
}

type SubCategoryPatch struct {
	Name *string
}
