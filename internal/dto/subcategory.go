package dto

import (
	"time"

	"wallet-ledger/internal/models"
)

type CreateSubCategoryRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	IsCustom   bool   `json:"is_custom"`
}

type UpdateSubCategoryRequest struct {
	Name *string `json:"name"`
}

type SubCategoryResponse struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	IsCustom      bool     `json:"is_custom"`
	IsActive      bool     `json:"is_active"`
	UserIDsCustom []string `json:"user_ids_custom"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func NewSubCategoryResponse(s *models.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{
		ID:            s.ID.String(),
		CategoryID:    s.CategoryID.String(),
		Name:          s.Name,
		IsCustom:      s.IsCustom,
		IsActive:      s.IsActive,
		UserIDsCustom: s.UserIDsCustom,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

func NewSubCategoryResponses(subCategories []*models.SubCategory) []SubCategoryResponse {
	out := make([]SubCategoryResponse, len(subCategories))
	for i, s := range subCategories {
		out[i] = NewSubCategoryResponse(s)
	}
	return out
}
