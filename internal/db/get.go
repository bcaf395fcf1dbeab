package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/llyfrau/internal/link"
)

const (
	selectSources = `SELECT id, name, COALESCE(prefix, '') AS prefix, uri FROM sources`
	selectLinks   = `SELECT l.id, l.name, l.url, l.visits, COALESCE(l.source_id, 0) AS source_id FROM links l`
	selectTags    = `SELECT id, name FROM tags`
)

// SourceByID returns the source with the given id.
func (r *SQLite) SourceByID(ctx context.Context, id int64) (*link.Source, error) {
	var s link.Source

	err := sqlx.GetContext(ctx, r.ext(), &s, selectSources+" WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "source id %d", id)
	}

	return &s, nil
}

// LinkByID returns the link with the given id, tags included.
func (r *SQLite) LinkByID(ctx context.Context, id int64) (*link.Link, error) {
	slog.Debug("getting record by ID", "id", id)

	var l link.Link

	err := sqlx.GetContext(ctx, r.ext(), &l, selectLinks+" WHERE l.id = ?", id)
	if err != nil {
		return nil, notFound(err, "link id %d", id)
	}

	if err := loadTags(ctx, r.ext(), []*link.Link{&l}); err != nil {
		return nil, err
	}

	return &l, nil
}

// TagByID returns the tag with the given id.
func (r *SQLite) TagByID(ctx context.Context, id int64) (*link.Tag, error) {
	var t link.Tag

	err := sqlx.GetContext(ctx, r.ext(), &t, selectTags+" WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "tag id %d", id)
	}

	return &t, nil
}

// TagByName returns the tag with exactly the given name.
func (r *SQLite) TagByName(ctx context.Context, name string) (*link.Tag, error) {
	var t link.Tag

	err := sqlx.GetContext(ctx, r.ext(), &t, selectTags+" WHERE name = ?", name)
	if err != nil {
		return nil, notFound(err, "tag %q", name)
	}

	return &t, nil
}

// LinkSource returns the source that owns the link.
func (r *SQLite) LinkSource(ctx context.Context, l *link.Link) (*link.Source, error) {
	if !l.HasSource() {
		return nil, fmt.Errorf("%w: link %d has no source", ErrRecordNotFound, l.ID)
	}

	return r.SourceByID(ctx, l.SourceID)
}

// SourceLinks returns every link of the source in insertion order.
func (r *SQLite) SourceLinks(ctx context.Context, sourceID int64) ([]*link.Link, error) {
	return r.selectLinks(ctx, selectLinks+" WHERE l.source_id = ? ORDER BY l.id ASC", sourceID)
}

// TagLinks returns every link carrying the named tag.
func (r *SQLite) TagLinks(ctx context.Context, name string) ([]*link.Link, error) {
	q := selectLinks + `
      JOIN link_tags lt ON lt.link_id = l.id
      JOIN tags t ON t.id = lt.tag_id
    WHERE
      t.name = ?
    ORDER BY
      l.id ASC`

	return r.selectLinks(ctx, q, name)
}

// ResolveURL returns the absolute URL of the link, with its source prefix
// applied.
func (r *SQLite) ResolveURL(ctx context.Context, l *link.Link) (string, error) {
	if !l.HasSource() {
		return l.URL, nil
	}

	s, err := r.LinkSource(ctx, l)
	if err != nil {
		return "", err
	}

	return link.Resolve(s.Prefix, l.URL), nil
}

// AddVisit increments the visit counter of the link in its own commit.
func (r *SQLite) AddVisit(ctx context.Context, id int64) error {
	return r.WithSession(ctx, func(s *Session) error {
		res, err := s.ext.ExecContext(ctx, "UPDATE links SET visits = visits + 1 WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("update visit: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update visit: %w", err)
		}

		if n == 0 {
			return fmt.Errorf("%w: link id %d", ErrRecordNotFound, id)
		}

		return nil
	})
}

// Count returns the number of records in the table.
func (r *SQLite) Count(ctx context.Context, t Table) (int, error) {
	var n int

	switch t {
	case tableSources, tableLinks, tableTags:
	default:
		return 0, fmt.Errorf("unknown table %q", t)
	}

	if err := sqlx.GetContext(ctx, r.ext(), &n, "SELECT COUNT(*) FROM "+t); err != nil {
		return 0, fmt.Errorf("counting %s: %w", t, err)
	}

	return n, nil
}

func (r *SQLite) CountSources(ctx context.Context) (int, error) { return r.Count(ctx, tableSources) }
func (r *SQLite) CountLinks(ctx context.Context) (int, error)   { return r.Count(ctx, tableLinks) }
func (r *SQLite) CountTags(ctx context.Context) (int, error)    { return r.Count(ctx, tableTags) }

// selectLinks runs a link query and loads the tags of the result.
func (r *SQLite) selectLinks(ctx context.Context, q string, args ...any) ([]*link.Link, error) {
	ls := []*link.Link{}

	if err := sqlx.SelectContext(ctx, r.ext(), &ls, q, args...); err != nil {
		return nil, fmt.Errorf("selecting links: %w", err)
	}

	if err := loadTags(ctx, r.ext(), ls); err != nil {
		return nil, err
	}

	return ls, nil
}

// notFound maps sql.ErrNoRows to ErrRecordNotFound.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, fmt.Sprintf(format, args...))
	}

	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
