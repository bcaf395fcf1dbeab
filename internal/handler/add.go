package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/link"
	"github.com/mateconpizza/llyfrau/internal/scraper"
)

// TitleFn returns the title of the page at url.
type TitleFn func(ctx context.Context, url string) (string, error)

// ScrapeTitle fetches the page and reads its <title>.
func ScrapeTitle(opts ...scraper.OptFn) TitleFn {
	return func(ctx context.Context, url string) (string, error) {
		s := scraper.New(url, append([]scraper.OptFn{scraper.WithContext(ctx)}, opts...)...)
		if err := s.Start(); err != nil {
			return "", err
		}

		return s.Title()
	}
}

// Add stores l. A link without a name is named after the page title found by
// title, or after its URL when that fails.
func Add(ctx context.Context, r *db.SQLite, l *link.Link, title TitleFn) (int64, error) {
	if l.Name == "" && l.URL != "" {
		u, err := r.ResolveURL(ctx, l)
		if err != nil {
			return 0, err
		}

		l.Name = nameFor(ctx, u, title)
	}

	id, err := r.InsertLink(ctx, l)
	if err != nil {
		return 0, fmt.Errorf("adding link: %w", err)
	}

	return id, nil
}

func nameFor(ctx context.Context, url string, title TitleFn) string {
	if title == nil {
		return url
	}

	t, err := title(ctx, url)
	if err != nil {
		slog.Warn("no title found, naming link after its url", "url", url, "error", err)
		return url
	}

	return t
}
