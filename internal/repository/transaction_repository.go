package repository

import (
	"context"
	"fmt"

	"wallet-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionsTable = "wallet_transactions"

var transactionColumns = []string{
	"id", "user_id", "sub_category_id", "amount", "on_time", "description", "transaction_type", "is_active", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.WalletTransaction) error {
	query := squirrel.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(tx.ID, tx.UserID, tx.SubCategoryID, tx.Amount, tx.OnTime, tx.Description, tx.TransactionType, tx.IsActive, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	query := squirrel.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanTransaction(r.db.QueryRow(ctx, sql, args...))
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]*models.WalletTransaction, error) {
	return r.list(ctx, nil)
}

// ListByUser returns the user's active transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*models.WalletTransaction, error) {
	return r.list(ctx, activeOf(userID))
}

func (r *TransactionRepository) Replace(ctx context.Context, tx *models.WalletTransaction) error {
	query := squirrel.Update(transactionsTable).
		Set("user_id", tx.UserID).
		Set("sub_category_id", tx.SubCategoryID).
		Set("amount", tx.Amount).
		Set("on_time", tx.OnTime).
		Set("description", tx.Description).
		Set("transaction_type", tx.TransactionType).
		Set("is_active", tx.IsActive).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *TransactionRepository) Inactivate(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update(transactionsTable).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *TransactionRepository) Remove(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

// NetAmount sums income minus expense over the user's active transactions. No rows yields 0.
func (r *TransactionRepository) NetAmount(ctx context.Context, userID string) (int64, error) {
	query := squirrel.Select().
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0)::BIGINT - "+
				"COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE 0 END), 0)::BIGINT",
			models.TransactionTypeIncome, models.TransactionTypeExpense,
		)).
		From(transactionsTable).
		Where(activeOf(userID)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var net int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&net); err != nil {
		return 0, fmt.Errorf("failed to calculate net amount: %w", err)
	}
	return net, nil
}

// TopSubCategories ranks the subcategories of the user's active transactions by use.
// Ties go to the subcategory that was used first.
func (r *TransactionRepository) TopSubCategories(ctx context.Context, userID string, limit int) ([]models.SubCategoryUsage, error) {
	query := squirrel.Select("sub_category_id", "COUNT(*) AS uses").
		From(transactionsTable).
		Where(activeOf(userID)).
		GroupBy("sub_category_id").
		OrderBy("uses DESC", "MIN(on_time) ASC", "sub_category_id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank subcategories: %w", err)
	}
	defer rows.Close()

	usage := []models.SubCategoryUsage{}
	for rows.Next() {
		var u models.SubCategoryUsage
		if err := rows.Scan(&u.SubCategoryID, &u.Uses); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}

	return usage, rows.Err()
}

func (r *TransactionRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.WalletTransaction, error) {
	query := squirrel.Select(transactionColumns...).
		From(transactionsTable).
		OrderBy("on_time DESC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)
	if where != nil {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*models.WalletTransaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func activeOf(userID string) squirrel.Sqlizer {
	return squirrel.Eq{"user_id": userID, "is_active": true}
}

func scanTransaction(row pgx.Row) (*models.WalletTransaction, error) {
	var tx models.WalletTransaction
	if err := row.Scan(
		&tx.ID, &tx.UserID, &tx.SubCategoryID, &tx.Amount, &tx.OnTime, &tx.Description, &tx.TransactionType, &tx.IsActive, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}
