// Package importer bulk-loads links from external catalogs.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mateconpizza/rotato"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/inventory"
	"github.com/mateconpizza/llyfrau/internal/link"
)

// TagSphinx is attached to every link imported from a Sphinx inventory.
const TagSphinx = "sphinx"

const defaultConcurrency = 4

// Result summarizes one imported inventory.
type Result struct {
	Source *link.Source
	Links  int
}

type OptFn func(*Options)

type Options struct {
	fetcher     inventory.Fetcher
	concurrency int
	spinner     bool
}

func defaults() *Options {
	return &Options{concurrency: defaultConcurrency}
}

// WithFetcher sets the inventory fetcher, the default is an HTTPFetcher.
func WithFetcher(f inventory.Fetcher) OptFn {
	return func(o *Options) {
		o.fetcher = f
	}
}

// WithConcurrency sets how many inventories SphinxMany fetches at once.
func WithConcurrency(n int) OptFn {
	return func(o *Options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithSpinner shows a spinner on stderr while importing.
func WithSpinner() OptFn {
	return func(o *Options) {
		o.spinner = true
	}
}

func newOptions(opts []OptFn) *Options {
	o := defaults()
	for _, fn := range opts {
		fn(o)
	}

	if o.fetcher == nil {
		o.fetcher = inventory.NewHTTPFetcher()
	}

	return o
}

// InventoryURL returns the location of the objects.inv published under base.
//
//	https://docs.python.org/3/objects.inv => unchanged
//	https://docs.python.org/2/            => https://docs.python.org/2/objects.inv
//	https://docs.python.org/1             => https://docs.python.org/1/objects.inv
func InventoryURL(base string) string {
	switch {
	case strings.HasSuffix(base, inventory.Filename):
		return base
	case strings.HasSuffix(base, "/"):
		return base + inventory.Filename
	}

	return base + "/" + inventory.Filename
}

// SourceName is the display name of the source built from inv.
func SourceName(inv *inventory.Inventory) string {
	return fmt.Sprintf("%s - %s | Sphinx Docs", inv.Project, inv.Version)
}

// Sphinx imports the inventory published under baseURL as one source and its
// links, in a single commit.
func Sphinx(ctx context.Context, r *db.SQLite, baseURL string, opts ...OptFn) (*Result, error) {
	o := newOptions(opts)
	sp := rotato.New(
		rotato.WithMesg("fetching inventory..."),
		rotato.WithMesgColor(rotato.ColorYellow),
		rotato.WithSpinnerColor(rotato.ColorBrightMagenta),
		rotato.WithDoneColorMesg(rotato.ColorBrightGreen, rotato.ColorStyleItalic),
		rotato.WithFailColorMesg(rotato.ColorBrightRed),
	)

	if o.spinner {
		sp.Start()
	}

	u := InventoryURL(baseURL)
	slog.Info("importing sphinx inventory", "url", u)

	inv, err := o.fetcher.Fetch(ctx, u)
	if err != nil {
		if o.spinner {
			sp.Fail("import failed")
		}

		return nil, fmt.Errorf("fetching inventory: %w", err)
	}

	res, err := store(ctx, r, baseURL, u, inv)
	if err != nil {
		if o.spinner {
			sp.Fail("import failed")
		}

		return nil, err
	}

	if o.spinner {
		sp.Done(fmt.Sprintf("imported %d links from %q", res.Links, res.Source.Name))
	}

	return res, nil
}

// SphinxMany fetches the inventories concurrently, then stores each one in its
// own commit following the order of baseURLs. The first fetch error cancels the
// remaining fetches and nothing is stored.
//
// A store error stops the import. Inventories stored before it stay committed
// and their results are returned along with the error.
func SphinxMany(ctx context.Context, r *db.SQLite, baseURLs []string, opts ...OptFn) ([]*Result, error) {
	o := newOptions(opts)
	sp := rotato.New(
		rotato.WithMesg("fetching inventories..."),
		rotato.WithMesgColor(rotato.ColorYellow),
		rotato.WithSpinnerColor(rotato.ColorBrightMagenta),
		rotato.WithDoneColorMesg(rotato.ColorBrightGreen, rotato.ColorStyleItalic),
		rotato.WithFailColorMesg(rotato.ColorBrightRed),
	)

	if o.spinner {
		sp.Start()
	}

	var (
		n       = len(baseURLs)
		count   uint32
		fetched = make([]*inventory.Inventory, n)
		g, gctx = errgroup.WithContext(ctx)
		sem     = semaphore.NewWeighted(int64(o.concurrency))
	)

	for i, base := range baseURLs {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			inv, err := o.fetcher.Fetch(gctx, InventoryURL(base))
			if err != nil {
				return fmt.Errorf("fetching %q: %w", base, err)
			}

			fetched[i] = inv

			cur := atomic.AddUint32(&count, 1)
			if o.spinner {
				sp.UpdateMesg(fmt.Sprintf("fetched [%d/%d]", cur, n))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if o.spinner {
			sp.Fail("fetch failed")
		}

		return nil, err
	}

	results := make([]*Result, 0, n)

	for i, base := range baseURLs {
		res, err := store(ctx, r, base, InventoryURL(base), fetched[i])
		if err != nil {
			if o.spinner {
				sp.Fail("import failed")
			}

			return results, err
		}

		results = append(results, res)
	}

	if o.spinner {
		sp.Done(fmt.Sprintf("imported %d inventories", len(results)))
	}

	return results, nil
}

// store writes the source and all its links in one session.
func store(ctx context.Context, r *db.SQLite, baseURL, invURL string, inv *inventory.Inventory) (*Result, error) {
	src := &link.Source{
		Name:   SourceName(inv),
		Prefix: baseURL,
		URI:    invURL,
	}

	links := make([]*link.Link, 0, len(inv.Objects))

	err := r.WithSession(ctx, func(s *db.Session) error {
		if _, err := s.InsertSource(ctx, src); err != nil {
			return fmt.Errorf("inserting source: %w", err)
		}

		for _, obj := range inv.Objects {
			links = append(links, &link.Link{
				Name:     obj.Label(),
				URL:      obj.Link(),
				SourceID: src.ID,
				Tags:     []string{TagSphinx, obj.Domain, obj.Role},
			})
		}

		if _, err := s.InsertLinks(ctx, links); err != nil {
			return fmt.Errorf("inserting links: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sphinx inventory imported", "source", src.Name, "links", len(links))

	return &Result{Source: src, Links: len(links)}, nil
}
