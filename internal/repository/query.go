package repository

import (
	"context"
	"strings"

	"wallet-ledger/internal/policy"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, db *pgxpool.Pool, query sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func count(ctx context.Context, db *pgxpool.Pool, table string, filter squirrel.Sqlizer) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From(table).
		PlaceholderFormat(squirrel.Dollar)
	if filter != nil {
		query = query.Where(filter)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func visibilityFilter(vis *policy.Visibility) squirrel.Sqlizer {
	if vis == nil {
		return nil
	}
	return *vis
}

// nonNil keeps NOT NULL array columns from receiving a nil slice.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
