package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/llyfrau/internal/link"
)

// DefaultTop is the number of results returned when Query.Top is not set.
const DefaultTop = 10

// SortVisits orders links by visit count, most visited first.
const SortVisits = "visits"

// Query filters records by name.
type Query struct {
	Name string // case-insensitive substring, empty matches all
	Top  int    // maximum number of results, DefaultTop when <= 0
}

func (q Query) limit() int {
	if q.Top <= 0 {
		return DefaultTop
	}

	return q.Top
}

// LinkQuery filters links.
type LinkQuery struct {
	Query
	Tags     []string // the link must carry every tag
	SourceID int64    // restrict to one source, 0 for any
	Sort     string   // "" for insertion order or SortVisits
}

func (q LinkQuery) orderBy() (string, error) {
	switch q.Sort {
	case "":
		return "l.id ASC", nil
	case SortVisits:
		return "l.visits DESC, l.id ASC", nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSortBy, q.Sort)
}

// nameFilter returns the where clause matching column against name.
func nameFilter(column, name string) (string, []any) {
	if name == "" {
		return "", nil
	}

	return fmt.Sprintf("instr(lower(%s), lower(?)) > 0", column), []any{name}
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(conds, " AND ")
}

// SearchSources returns the sources whose name contains q.Name.
func (r *SQLite) SearchSources(ctx context.Context, q Query) ([]*link.Source, error) {
	var (
		conds []string
		args  []any
	)

	if c, a := nameFilter("name", q.Name); c != "" {
		conds = append(conds, c)
		args = append(args, a...)
	}

	query := selectSources + whereClause(conds) + " ORDER BY id ASC LIMIT ?"
	args = append(args, q.limit())

	ss := []*link.Source{}
	if err := sqlx.SelectContext(ctx, r.ext(), &ss, query, args...); err != nil {
		return nil, fmt.Errorf("searching sources: %w", err)
	}

	return ss, nil
}

// SearchTags returns the tags whose name contains q.Name.
func (r *SQLite) SearchTags(ctx context.Context, q Query) ([]*link.Tag, error) {
	var (
		conds []string
		args  []any
	)

	if c, a := nameFilter("name", q.Name); c != "" {
		conds = append(conds, c)
		args = append(args, a...)
	}

	query := selectTags + whereClause(conds) + " ORDER BY id ASC LIMIT ?"
	args = append(args, q.limit())

	ts := []*link.Tag{}
	if err := sqlx.SelectContext(ctx, r.ext(), &ts, query, args...); err != nil {
		return nil, fmt.Errorf("searching tags: %w", err)
	}

	return ts, nil
}

// SearchLinks returns the links matching every filter of q.
func (r *SQLite) SearchLinks(ctx context.Context, q LinkQuery) ([]*link.Link, error) {
	order, err := q.orderBy()
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)

	if c, a := nameFilter("l.name", q.Name); c != "" {
		conds = append(conds, c)
		args = append(args, a...)
	}

	if q.SourceID != 0 {
		conds = append(conds, "l.source_id = ?")
		args = append(args, q.SourceID)
	}

	if tags := link.NormalizeTags(q.Tags); len(tags) > 0 {
		conds = append(conds, `l.id IN (
      SELECT
        lt.link_id
      FROM
        link_tags lt
        JOIN tags t ON t.id = lt.tag_id
      WHERE
        t.name IN (?)
      GROUP BY
        lt.link_id
      HAVING
        COUNT(DISTINCT t.name) = ?
    )`)
		args = append(args, tags, len(tags))
	}

	query := selectLinks + whereClause(conds) + " ORDER BY " + order + " LIMIT ?"
	args = append(args, q.limit())

	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return r.selectLinks(ctx, r.DB.Rebind(query), args...)
}
