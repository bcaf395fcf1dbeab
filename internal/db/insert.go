package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/llyfrau/internal/link"
)

// rowWriter inserts one kind of record.
type rowWriter[T any] struct {
	name   string
	insert func(context.Context, sqlx.ExtContext, *T) (int64, error)
	assign func(*T, int64) // stores the generated id back in the record
}

var (
	sourceWriter = rowWriter[link.Source]{
		name:   "source",
		insert: insertSource,
		assign: func(s *link.Source, id int64) { s.ID = id },
	}

	linkWriter = rowWriter[link.Link]{
		name:   "link",
		insert: insertLink,
		assign: func(l *link.Link, id int64) {
			l.ID = id
			l.Tags = uniqueTags(l.Tags)
		},
	}

	tagWriter = rowWriter[link.Tag]{
		name:   "tag",
		insert: insertTag,
		assign: func(t *link.Tag, id int64) { t.ID = id },
	}
)

// insertAll inserts records in order and returns their ids. Nothing is
// assigned back to the records.
func (w rowWriter[T]) insertAll(ctx context.Context, ext sqlx.ExtContext, records []*T) ([]int64, error) {
	ids := make([]int64, 0, len(records))

	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: %s at index %d", ErrRecordNil, w.name, i)
		}

		id, err := w.insert(ctx, ext, rec)
		if err != nil {
			return nil, fmt.Errorf("inserting %s %d: %w", w.name, i, err)
		}

		ids = append(ids, id)
	}

	slog.Debug("inserted records", "kind", w.name, "count", len(ids))

	return ids, nil
}

func (w rowWriter[T]) assignAll(records []*T, ids []int64) {
	for i, id := range ids {
		w.assign(records[i], id)
	}
}

// insertCommit inserts records in a one-shot session. Ids are assigned only
// after the commit succeeds.
func insertCommit[T any](ctx context.Context, r *SQLite, w rowWriter[T], records []*T) ([]int64, error) {
	var ids []int64

	err := r.WithSession(ctx, func(s *Session) error {
		var err error
		ids, err = w.insertAll(ctx, s.ext, records)

		return err
	})
	if err != nil {
		return nil, err
	}

	w.assignAll(records, ids)

	return ids, nil
}

func insertSession[T any](ctx context.Context, s *Session, w rowWriter[T], records []*T) ([]int64, error) {
	ids, err := w.insertAll(ctx, s.ext, records)
	if err != nil {
		return nil, err
	}

	w.assignAll(records, ids)

	return ids, nil
}

func first(ids []int64, err error) (int64, error) {
	if err != nil {
		return 0, err
	}

	return ids[0], nil
}

// InsertSource adds one source and returns its id.
func (r *SQLite) InsertSource(ctx context.Context, src *link.Source) (int64, error) {
	return first(insertCommit(ctx, r, sourceWriter, []*link.Source{src}))
}

// InsertSources adds a batch of sources in one commit.
func (r *SQLite) InsertSources(ctx context.Context, ss []*link.Source) ([]int64, error) {
	return insertCommit(ctx, r, sourceWriter, ss)
}

// InsertLink adds one link, with its tags, and returns its id.
func (r *SQLite) InsertLink(ctx context.Context, l *link.Link) (int64, error) {
	return first(insertCommit(ctx, r, linkWriter, []*link.Link{l}))
}

// InsertLinks adds a batch of links in one commit.
func (r *SQLite) InsertLinks(ctx context.Context, ls []*link.Link) ([]int64, error) {
	return insertCommit(ctx, r, linkWriter, ls)
}

// InsertTag adds one tag and returns its id. The name must not exist yet.
func (r *SQLite) InsertTag(ctx context.Context, t *link.Tag) (int64, error) {
	return first(insertCommit(ctx, r, tagWriter, []*link.Tag{t}))
}

// InsertTags adds a batch of tags in one commit.
func (r *SQLite) InsertTags(ctx context.Context, ts []*link.Tag) ([]int64, error) {
	return insertCommit(ctx, r, tagWriter, ts)
}

func (s *Session) InsertSource(ctx context.Context, src *link.Source) (int64, error) {
	return first(insertSession(ctx, s, sourceWriter, []*link.Source{src}))
}

func (s *Session) InsertSources(ctx context.Context, ss []*link.Source) ([]int64, error) {
	return insertSession(ctx, s, sourceWriter, ss)
}

func (s *Session) InsertLink(ctx context.Context, l *link.Link) (int64, error) {
	return first(insertSession(ctx, s, linkWriter, []*link.Link{l}))
}

func (s *Session) InsertLinks(ctx context.Context, ls []*link.Link) ([]int64, error) {
	return insertSession(ctx, s, linkWriter, ls)
}

func (s *Session) InsertTag(ctx context.Context, t *link.Tag) (int64, error) {
	return first(insertSession(ctx, s, tagWriter, []*link.Tag{t}))
}

func (s *Session) InsertTags(ctx context.Context, ts []*link.Tag) ([]int64, error) {
	return insertSession(ctx, s, tagWriter, ts)
}

// TagID returns the id of the tag with the given name, creating the tag when
// it does not exist.
func (s *Session) TagID(ctx context.Context, name string) (int64, error) {
	return getOrCreateTag(ctx, s.ext, name)
}

func insertSource(ctx context.Context, ext sqlx.ExtContext, s *link.Source) (int64, error) {
	switch {
	case s.Name == "":
		return 0, notNull(tableSources, "name")
	case s.URI == "":
		return 0, notNull(tableSources, "uri")
	}

	res, err := ext.ExecContext(ctx,
		"INSERT INTO sources (id, name, prefix, uri) VALUES (?, ?, ?, ?)",
		nullID(s.ID), s.Name, nullString(s.Prefix), s.URI,
	)
	if err != nil {
		return 0, translate(err, tableSources)
	}

	return lastID(res)
}

func insertLink(ctx context.Context, ext sqlx.ExtContext, l *link.Link) (int64, error) {
	switch {
	case l.Name == "":
		return 0, notNull(tableLinks, "name")
	case l.URL == "":
		return 0, notNull(tableLinks, "url")
	case l.Visits < 0:
		return 0, &IntegrityError{Table: tableLinks, Column: "visits", Constraint: ConstraintCheck}
	case slices.ContainsFunc(l.Tags, isBlank):
		return 0, notNull(tableTags, "name")
	}

	res, err := ext.ExecContext(ctx,
		"INSERT INTO links (id, name, url, visits, source_id) VALUES (?, ?, ?, ?, ?)",
		nullID(l.ID), l.Name, l.URL, l.Visits, nullID(l.SourceID),
	)
	if err != nil {
		return 0, translate(err, tableLinks)
	}

	id, err := lastID(res)
	if err != nil {
		return 0, err
	}

	if err := associateTags(ctx, ext, id, l.Tags); err != nil {
		return 0, err
	}

	return id, nil
}

func insertTag(ctx context.Context, ext sqlx.ExtContext, t *link.Tag) (int64, error) {
	if isBlank(t.Name) {
		return 0, notNull(tableTags, "name")
	}

	res, err := ext.ExecContext(ctx, "INSERT INTO tags (id, name) VALUES (?, ?)", nullID(t.ID), t.Name)
	if err != nil {
		return 0, translate(err, tableTags)
	}

	return lastID(res)
}

func lastID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert ID: %w", err)
	}

	return id, nil
}

// nullID binds a zero id as NULL, letting the database generate one.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
