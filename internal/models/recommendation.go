package models

import "github.com/google/uuid"

// SubCategoryUsage is how many active transactions of a user reference a subcategory.
type SubCategoryUsage struct {
	SubCategoryID uuid.UUID `db:"sub_category_id"`
	Uses          int64     `db:"uses"`
}
