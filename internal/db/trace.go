package db

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// traced logs the statements that pass through the wrapped executor.
type traced struct {
	sqlx.ExtContext
}

func (t traced) log(q string, args []any) {
	slog.Info("sql", "query", strings.Join(strings.Fields(q), " "), "args", args)
}

func (t traced) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	t.log(q, args)
	return t.ExtContext.ExecContext(ctx, q, args...)
}

func (t traced) QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	t.log(q, args)
	return t.ExtContext.QueryContext(ctx, q, args...)
}

func (t traced) QueryxContext(ctx context.Context, q string, args ...any) (*sqlx.Rows, error) {
	t.log(q, args)
	return t.ExtContext.QueryxContext(ctx, q, args...)
}

func (t traced) QueryRowxContext(ctx context.Context, q string, args ...any) *sqlx.Row {
	t.log(q, args)
	return t.ExtContext.QueryRowxContext(ctx, q, args...)
}
