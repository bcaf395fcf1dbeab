package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Session is an open transaction. Its writes become visible to other readers
// only after Commit.
type Session struct {
	tx  *sqlx.Tx
	ext sqlx.ExtContext
}

// Begin starts a new session.
func (r *SQLite) Begin(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	s := &Session{tx: tx, ext: tx}
	if r.verbose {
		s.ext = traced{tx}
	}

	return s, nil
}

// Commit makes the session writes durable.
func (s *Session) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}

// Rollback discards the session writes. Rolling back a finished session is a
// no-op.
func (s *Session) Rollback() error {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback failed: %w", err)
	}

	return nil
}

// WithSession runs fn in a new session, committing when fn succeeds and
// rolling back when it fails or panics.
func (r *SQLite) WithSession(ctx context.Context, fn func(s *Session) error) error {
	s, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.tx.Rollback() // ensure rollback on panic

			panic(p) // re-throw the panic after rollback
		} else if err := s.Rollback(); err != nil {
			slog.Error("rollback error", "error", err)
		}
	}()

	if err := fn(s); err != nil {
		return err
	}

	return s.Commit()
}
