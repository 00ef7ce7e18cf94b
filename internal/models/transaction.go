package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type WalletTransaction struct {
	ID              uuid.UUID       `db:"id"`
	UserID          string          `db:"user_id"`
	SubCategoryID   uuid.UUID       `db:"sub_category_id"`
	Amount          int64           `db:"amount"` // minor currency units
	OnTime          time.Time       `db:"on_time"`
	Description     string          `db:"description"`
	TransactionType TransactionType `db:"transaction_type"`
	IsActive        bool            `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (t *WalletTransaction) OwnedBy(userID string) bool {
	return t.UserID == userID
}

type TransactionPatch struct {
	SubCategoryID *uuid.UUID
	Amount        *int64
	Description   *string
}
