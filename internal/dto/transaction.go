package dto

import (
	"time"

	"wallet-ledger/internal/models"
)

type CreateTransactionRequest struct {
	SubCategoryID   string `json:"sub_category_id"`
	Amount          int64  `json:"amount"`
	Description     string `json:"description"`
	TransactionType string `json:"transaction_type"`
}

type UpdateTransactionRequest struct {
	SubCategoryID *string `json:"sub_category_id"`
	Amount        *int64  `json:"amount"`
	Description   *string `json:"description"`
}

type TransactionResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	SubCategoryID   string `json:"sub_category_id"`
	Amount          int64  `json:"amount"`
	OnTime          string `json:"on_time"`
	Description     string `json:"description"`
	TransactionType string `json:"transaction_type"`
	IsActive        bool   `json:"is_active"`
}

type NetAmountResponse struct {
	NetAmount int64 `json:"net_amount"`
}

func NewTransactionResponse(tx *models.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID.String(),
		UserID:          tx.UserID,
		SubCategoryID:   tx.SubCategoryID.String(),
		Amount:          tx.Amount,
		OnTime:          tx.OnTime.Format(time.RFC3339),
		Description:     tx.Description,
		TransactionType: string(tx.TransactionType),
		IsActive:        tx.IsActive,
	}
}

func NewTransactionResponses(transactions []*models.WalletTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		out[i] = NewTransactionResponse(tx)
	}
	return out
}
