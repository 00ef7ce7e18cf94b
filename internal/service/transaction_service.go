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

// RecommendationLimit caps the number of subcategories suggested to a user.
const RecommendationLimit = 5

type SubCategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
}

type CreateTransactionInput struct {
	SubCategoryID   uuid.UUID
	Amount          int64
	Description     string
	TransactionType models.TransactionType
}

type TransactionService struct {
	store         TransactionStore
	subCategories SubCategoryReader
	edit          policy.EditPolicy
	ownerOnUpdate policy.OwnerOnUpdate
	now           func() time.Time
	logger        *zap.Logger
}

func NewTransactionService(
	store TransactionStore,
	subCategories SubCategoryReader,
	edit policy.EditPolicy,
	ownerOnUpdate policy.OwnerOnUpdate,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		store:         store,
		subCategories: subCategories,
		edit:          edit,
		ownerOnUpdate: ownerOnUpdate,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return tx, nil
}

func (s *TransactionService) ListForAdmin(ctx context.Context) ([]*models.WalletTransaction, error) {
	return s.store.ListAll(ctx)
}

func (s *TransactionService) ListForUser(ctx context.Context, userID string) ([]*models.WalletTransaction, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *TransactionService) List(ctx context.Context, caller policy.Caller) ([]*models.WalletTransaction, error) {
	if caller.IsAdmin {
		return s.ListForAdmin(ctx)
	}
	return s.ListForUser(ctx, caller.UserID)
}

// Create records a transaction for the caller. OnTime is always the current instant.
// The subcategory must exist; its visibility to the caller is not checked.
func (s *TransactionService) Create(ctx context.Context, caller policy.Caller, in CreateTransactionInput) (*models.WalletTransaction, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("transaction without owner: %w", ErrPermissionDenied)
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.TransactionType.Valid() {
		return nil, invalid("unknown transaction type %q", in.TransactionType)
	}
	if err := s.checkSubCategory(ctx, in.SubCategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	tx := &models.WalletTransaction{
		ID:              uuid.New(),
		UserID:          caller.UserID,
		SubCategoryID:   in.SubCategoryID,
		Amount:          in.Amount,
		OnTime:          now,
		Description:     sanitizeUTF8(in.Description),
		TransactionType: in.TransactionType,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("user_id", tx.UserID),
		zap.String("type", string(tx.TransactionType)),
		zap.Int64("amount", tx.Amount),
	)
	return tx, nil
}

// Update patches an active transaction. OnTime, type and state never change here; the owner
// follows the configured OwnerOnUpdate mode.
func (s *TransactionService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, patch models.TransactionPatch) (*models.WalletTransaction, error) {
	tx, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsActive {
		return nil, fmt.Errorf("transaction %s is inactive: %w", id, ErrNotFound)
	}
	if !s.edit.Allows(caller, tx) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrPermissionDenied)
	}

	if patch.SubCategoryID != nil {
		if err := s.checkSubCategory(ctx, *patch.SubCategoryID); err != nil {
			return nil, err
		}
		tx.SubCategoryID = *patch.SubCategoryID
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
		tx.Amount = *patch.Amount
	}
	if patch.Description != nil {
		tx.Description = sanitizeUTF8(*patch.Description)
	}
	if s.ownerOnUpdate == policy.ReassignToCaller {
		tx.UserID = caller.UserID
	}
	tx.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, tx); err != nil {
		return nil, notFound(err, "transaction", id)
	}

	s.logger.Info("Transaction updated",
		zap.String("transaction_id", id.String()),
		zap.String("user_id", tx.UserID),
		zap.String("caller_id", caller.UserID),
	)
	return tx, nil
}

func (s *TransactionService) Inactivate(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	tx, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.edit.Allows(caller, tx) {
		return fmt.Errorf("transaction %s: %w", id, ErrPermissionDenied)
	}
	if !tx.IsActive {
		return nil
	}

	if err := s.store.Inactivate(ctx, id); err != nil {
		return notFound(err, "transaction", id)
	}

	s.logger.Info("Transaction inactivated", zap.String("transaction_id", id.String()), zap.String("user_id", caller.UserID))
	return nil
}

// CalculateNetAmount is income minus expense over the user's active transactions; 0 when there are none.
func (s *TransactionService) CalculateNetAmount(ctx context.Context, userID string) (int64, error) {
	return s.store.NetAmount(ctx, userID)
}

// RecommendSubCategories returns up to RecommendationLimit subcategory ids ordered by how often
// the user's active transactions use them. Ties keep the subcategory that was used first.
func (s *TransactionService) RecommendSubCategories(ctx context.Context, userID string) ([]uuid.UUID, error) {
	usage, err := s.store.TopSubCategories(ctx, userID, RecommendationLimit)
	if err != nil {
		return nil, err
	}
	if len(usage) > RecommendationLimit {
		usage = usage[:RecommendationLimit]
	}

	ids := make([]uuid.UUID, len(usage))
	for i, u := range usage {
		ids[i] = u.SubCategoryID
	}
	return ids, nil
}

func (s *TransactionService) checkSubCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subCategories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return fmt.Errorf("subcategory %s: %w", id, ErrReference)
		}
		return err
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount < 0 {
		return invalid("amount must not be negative")
	}
	return nil
}
