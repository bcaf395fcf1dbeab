// Package link contains the records stored in a catalog: sources, links and
// tags.
package link

import (
	"slices"
	"strings"
)

// Source is the origin of a group of links, e.g. a documentation site.
type Source struct {
	ID     int64  `db:"id"     json:"id"`
	Name   string `db:"name"   json:"name"`
	Prefix string `db:"prefix" json:"prefix,omitempty"` // prepended to relative link URLs
	URI    string `db:"uri"    json:"uri"`              // canonical locator of the origin
}

// Equal reports whether both sources hold the same values.
func (s *Source) Equal(o *Source) bool {
	if s == nil || o == nil {
		return s == o
	}

	return *s == *o
}

// Link is a single bookmark.
type Link struct {
	ID       int64    `db:"id"        json:"id"`
	Name     string   `db:"name"      json:"name"`
	URL      string   `db:"url"       json:"url"`
	Visits   int      `db:"visits"    json:"visits"`
	SourceID int64    `db:"source_id" json:"source_id,omitempty"` // 0 when the link has no source
	Tags     []string `db:"-"         json:"tags,omitempty"`
}

// Equal reports whether both links hold the same values. Tags are compared as
// a set.
func (l *Link) Equal(o *Link) bool {
	if l == nil || o == nil {
		return l == o
	}

	if l.ID != o.ID || l.Name != o.Name || l.URL != o.URL ||
		l.Visits != o.Visits || l.SourceID != o.SourceID {
		return false
	}

	return slices.Equal(NormalizeTags(l.Tags), NormalizeTags(o.Tags))
}

// HasSource reports whether the link belongs to a source.
func (l *Link) HasSource() bool {
	return l.SourceID != 0
}

// Tag is a free-form label attached to links.
type Tag struct {
	ID   int64  `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}

// Equal reports whether both tags hold the same values.
func (t *Tag) Equal(o *Tag) bool {
	if t == nil || o == nil {
		return t == o
	}

	return *t == *o
}

// Resolve returns the absolute URL of a link, joining the source prefix when
// one is set.
func Resolve(prefix, url string) string {
	if prefix == "" {
		return url
	}

	return prefix + url
}

// NormalizeTags returns a sorted copy of tags without duplicates or blanks.
// It returns nil when no tag remains.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}

	if len(out) == 0 {
		return nil
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// ParseTags splits a comma or space separated string into tag names.
//
//	"go, cli  db" => ["cli", "db", "go"]
func ParseTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	return NormalizeTags(fields)
}
