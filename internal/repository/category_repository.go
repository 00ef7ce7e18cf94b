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

const categoriesTable = "categories"

var categoryColumns = []string{"id", "name", "is_custom", "is_active", "user_ids_custom", "created_at", "updated_at"}

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := squirrel.Insert(categoriesTable).
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.IsCustom, c.IsActive, nonNil(c.UserIDsCustom), c.CreatedAt, c.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translate(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName returns the oldest category with the name, active or not.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// FindActiveByName returns the active global (isCustom=false) or custom category with the name.
func (r *CategoryRepository) FindActiveByName(ctx context.Context, name string, isCustom bool) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name, "is_custom": isCustom, "is_active": true})
}

// ListAll is the admin listing: every row regardless of state or ownership.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	return r.list(ctx, nil)
}

func (r *CategoryRepository) List(ctx context.Context, vis policy.Visibility) ([]*models.Category, error) {
	return r.list(ctx, vis)
}

// Count counts the rows visible under vis; nil counts every row.
func (r *CategoryRepository) Count(ctx context.Context, vis *policy.Visibility) (int64, error) {
	return count(ctx, r.db, categoriesTable, visibilityFilter(vis))
}

// Replace overwrites every mutable column of the row.
func (r *CategoryRepository) Replace(ctx context.Context, c *models.Category) error {
	query := squirrel.Update(categoriesTable).
		Set("name", c.Name).
		Set("is_custom", c.IsCustom).
		Set("is_active", c.IsActive).
		Set("user_ids_custom", nonNil(c.UserIDsCustom)).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

// AddOwner appends userID to the owner set in one statement unless it is already there.
func (r *CategoryRepository) AddOwner(ctx context.Context, id uuid.UUID, userID string) (*models.Category, error) {
	query := squirrel.Update(categoriesTable).
		Set("user_ids_custom", squirrel.Expr("array_append(user_ids_custom, ?)", userID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("NOT (? = ANY(user_ids_custom))", userID)).
		Suffix("RETURNING " + joinColumns(categoryColumns)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, ErrNotFound) {
		// already an owner, or no such row
		return r.GetByID(ctx, id)
	}
	if err == nil {
		r.logger.Debug("Owner added to category", zap.String("category_id", id.String()), zap.String("user_id", userID))
	}
	return c, err
}

func (r *CategoryRepository) Inactivate(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update(categoriesTable).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

// Remove deletes the row for good. Not reachable from the API.
func (r *CategoryRepository) Remove(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(categoriesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execOne(ctx, r.db, query)
}

func (r *CategoryRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From(categoriesTable).
		Where(where).
		OrderBy("created_at ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanCategory(r.db.QueryRow(ctx, sql, args...))
}

func (r *CategoryRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From(categoriesTable).
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
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(
		&c.ID, &c.Name, &c.IsCustom, &c.IsActive, &c.UserIDsCustom, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}
