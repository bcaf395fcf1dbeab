package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/llyfrau/internal/link"
)

// getOrCreateTag returns the tag ID, inserting the tag when missing.
func getOrCreateTag(ctx context.Context, ext sqlx.ExtContext, name string) (int64, error) {
	if isBlank(name) {
		return 0, notNull(tableTags, "name")
	}

	tagID, err := getTag(ctx, ext, name)
	if err != nil {
		return 0, fmt.Errorf("getting tag: %w", err)
	}

	if tagID != 0 {
		return tagID, nil
	}

	tagID, err = insertTag(ctx, ext, &link.Tag{Name: name})
	if err != nil {
		return 0, fmt.Errorf("creating tag: %w", err)
	}

	return tagID, nil
}

// getTag returns the tag ID, or 0 when not found.
func getTag(ctx context.Context, q sqlx.QueryerContext, name string) (int64, error) {
	var tagID int64

	err := q.QueryRowxContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("querying tag: %w", err)
	}

	return tagID, nil
}

// isBlank reports whether a tag name is empty or only whitespace.
func isBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}

// uniqueTags returns a sorted copy of tags without duplicates. Names are kept
// as given.
func uniqueTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	out := slices.Clone(tags)
	slices.Sort(out)

	return slices.Compact(out)
}

// associateTags attaches the named tags to the link.
func associateTags(ctx context.Context, ext sqlx.ExtContext, linkID int64, tags []string) error {
	tags = uniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}

	slog.Debug("associating tags with link", "tags", tags, "link", linkID)

	for _, tag := range tags {
		tagID, err := getOrCreateTag(ctx, ext, tag)
		if err != nil {
			return err
		}

		_, err = ext.ExecContext(ctx,
			"INSERT OR IGNORE INTO link_tags (link_id, tag_id) VALUES (?, ?)", linkID, tagID)
		if err != nil {
			return translate(err, tableLinkTags)
		}
	}

	return nil
}

// loadTags fills the Tags field of each link, sorted by name.
func loadTags(ctx context.Context, q sqlx.QueryerContext, ls []*link.Link) error {
	if len(ls) == 0 {
		return nil
	}

	byID := make(map[int64]*link.Link, len(ls))
	ids := make([]int64, 0, len(ls))

	for _, l := range ls {
		l.Tags = nil
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	query, args, err := sqlx.In(`
    SELECT
      lt.link_id,
      t.name
    FROM
      link_tags lt
      JOIN tags t ON t.id = lt.tag_id
    WHERE
      lt.link_id IN (?)
    ORDER BY
      t.name ASC`, ids)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	var rows []struct {
		LinkID int64  `db:"link_id"`
		Name   string `db:"name"`
	}

	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}

	for _, row := range rows {
		if l, ok := byID[row.LinkID]; ok {
			l.Tags = append(l.Tags, row.Name)
		}
	}

	return nil
}

// TagsCounter returns a map with tag as key and count as value.
func (r *SQLite) TagsCounter(ctx context.Context) (map[string]int, error) {
	q := `
    SELECT
      t.name,
      COUNT(lt.tag_id) AS tag_count
    FROM
      tags t
      LEFT JOIN link_tags lt ON t.id = lt.tag_id
    GROUP BY
      t.id,
      t.name;`

	var results []struct {
		Name  string `db:"name"`
		Count int    `db:"tag_count"`
	}

	if err := sqlx.SelectContext(ctx, r.ext(), &results, q); err != nil {
		return nil, fmt.Errorf("error querying tags count: %w", err)
	}

	tagCounts := make(map[string]int, len(results))
	for _, row := range results {
		tagCounts[row.Name] = row.Count
	}

	return tagCounts, nil
}
