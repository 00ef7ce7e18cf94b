package dto

import (
	"time"

	"wallet-ledger/internal/models"
)

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	IsCustom bool   `json:"is_custom"`
}

// UpdateCategoryRequest fields are optional; omitted fields keep their value.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	IsCustom *bool   `json:"is_custom"`
	IsActive *bool   `json:"is_active"`
}

type CategoryResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	IsCustom      bool     `json:"is_custom"`
	IsActive      bool     `json:"is_active"`
	UserIDsCustom []string `json:"user_ids_custom"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		IsCustom:      c.IsCustom,
		IsActive:      c.IsActive,
		UserIDsCustom: c.UserIDsCustom,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

func NewCategoryResponses(categories []*models.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = NewCategoryResponse(c)
	}
	return out
}
