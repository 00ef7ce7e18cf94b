package repository

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const subCategoriesTable = "sub_categories"

var subCategoryColumns = []string{"id", "category_id", "name", "is_custom", "is_active", "user_ids_custom", "created_at", "updated_at"}

type SubCategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *SubCategoryRepository {
	return &SubCategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SubCategoryRepository) Create(ctx context.Context, s *models.SubCategory) error {
	query := squirrel.Insert(subCategoriesTable).
		Columns(subCategoryColumns...).
		Values(s.ID, s.CategoryID, s.Name, s.IsCustom, s.IsActive, nonNil(s.UserIDsCustom), s.CreatedAt, s.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *SubCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *SubCategoryRepository) GetByName(ctx context.Context, name string) (*models.SubCategory, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// FindActiveByName looks for an active subcategory of kind isCustom under categoryID.
func (r *SubCategoryRepository) FindActiveByName(ctx context.Context, categoryID uuid.UUID, name string, isCustom bool) (*models.SubCategory, error) {
	return r.getOne(ctx, squirrel.Eq{
		"category_id": categoryID,
		"name":        name,
		"is_custom":   isCustom,
		"is_active":   true,
	})
}

func (r *SubCategoryRepository) ListAll(ctx context.Context) ([]*models.SubCategory, error) {
	return r.list(ctx, nil)
}

// ListByCategory returns every subcategory of categoryID regardless of visibility.
func (r *SubCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.SubCategory, error) {
	return r.list(ctx, policy.InCategory(categoryID))
}

func (r *SubCategoryRepository) List(ctx context.Context, vis policy.Visibility) ([]*models.SubCategory, error) {
	return r.list(ctx, vis)
}

func (r *SubCategoryRepository) Count(ctx context.Context, vis *policy.Visibility) (int64, error) {
	return count(ctx, r.db, subCategoriesTable, visibilityFilter(vis))
}

func (r *SubCategoryRepository) Replace(ctx context.Context, s *models.SubCategory) error {
	query := squirrel.Update(subCategoriesTable).
		Set("category_id", s.CategoryID).
		Set("name", s.Name).
		Set("is_custom", s.IsCustom).
		Set("is_active", s.IsActive).
		Set("user_ids_custom", nonNil(s.UserIDsCustom)).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *SubCategoryRepository) AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.SubCategory, error) {
	query := squirrel.Update(subCategoriesTable).
		Set("user_ids_custom", squirrel.Expr("array_append(user_ids_custom, ?)", userID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("NOT (? = ANY(user_ids_custom))", userID)).
		Suffix("RETURNING " + joinColumns(subCategoryColumns)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSubCategory(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, ErrNotFound) {
		return r.GetByID(ctx, id)
	}
	if err == nil {
		r.logger.Debug("Owner added to subcategory", zap.String("sub_category_id", id.String()), zap.String("user_id", userID))
	}
	return s, err
}

func (r *SubCategoryRepository) Inactivate(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update(subCategoriesTable).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *SubCategoryRepository) Remove(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(subCategoriesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *SubCategoryRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.SubCategory, error) {
	query := squirrel.Select(subCategoryColumns...).
		From(subCategoriesTable).
		Where(where).
		OrderBy("created_at ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanSubCategory(r.db.QueryRow(ctx, sql, args...))
}

func (r *SubCategoryRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.SubCategory, error) {
	query := squirrel.Select(subCategoryColumns...).
		From(subCategoriesTable).
		OrderBy("name ASC", "created_at ASC").
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
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subCategories := []*models.SubCategory{}
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		subCategories = append(subCategories, s)
	}

	return subCategories, rows.Err()
}

func scanSubCategory(row pgx.Row) (*models.SubCategory, error) {
	var s models.SubCategory
	if err := row.Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.IsCustom, &s.IsActive, &s.UserIDsCustom, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}
