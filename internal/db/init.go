package db

import (
	"context"
	"fmt"
	"log/slog"
)

// Init creates the required tables and indexes.
func (r *SQLite) Init(ctx context.Context) error {
	return r.WithSession(ctx, func(s *Session) error {
		for _, schema := range tablesAndSchemas {
			slog.Debug("creating table", "name", schema.Name)

			if _, err := s.ext.ExecContext(ctx, schema.SQL); err != nil {
				return fmt.Errorf("creating %q table: %w", schema.Name, err)
			}

			for _, idx := range schema.Index {
				if _, err := s.ext.ExecContext(ctx, idx); err != nil {
					return fmt.Errorf("creating %q index: %w", schema.Name, err)
				}
			}
		}

		return nil
	})
}

// IsInitialized reports whether every table of the schema exists.
func (r *SQLite) IsInitialized(ctx context.Context) (bool, error) {
	for _, s := range tablesAndSchemas {
		exists, err := r.tableExists(ctx, s.Name)
		if err != nil {
			return false, err
		}

		if !exists {
			slog.Debug("table does not exist", "name", s.Name)
			return false, nil
		}
	}

	return true, nil
}

// tableExists checks whether a table with the specified name exists in the SQLite database.
func (r *SQLite) tableExists(ctx context.Context, t Table) (bool, error) {
	var count int

	q := "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?"
	if err := r.DB.GetContext(ctx, &count, q, t); err != nil {
		slog.Error("checking if table exists", "name", t, "error", err)
		return false, fmt.Errorf("tableExists: %w", err)
	}

	return count > 0, nil
}
