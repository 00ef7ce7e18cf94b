package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	IsCustom      bool      `db:"is_custom"`
	IsActive      bool      `db:"is_active"`
	UserIDsCustom []string  `db:"user_ids_custom"` // owners of a custom category
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// NewCategory builds an active category. Custom categories start with ownerID as sole owner.
func NewCategory(name string, isCustom bool, ownerID string, now time.Time) *Category {
	return &Category{
		ID:            uuid.New(),
		Name:          name,
		IsCustom:      isCustom,
		IsActive:      true,
		UserIDsCustom: initialOwners(isCustom, ownerID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Category) Custom() bool { return c.IsCustom }
func (c *Category) Active() bool { return c.IsActive }

func (c *Category) OwnedBy(userID string) bool {
	return c.IsCustom && slices.Contains(c.UserIDsCustom, userID)
}

// CategoryPatch carries optional changes; nil fields keep their value.
type CategoryPatch struct {
	Name     *string
	IsCustom *bool
	IsActive *bool
}

func initialOwners(isCustom bool, ownerID string) []string {
	if isCustom && ownerID != "" {
		return []string{ownerID}
	}
	return []string{}
}
