// Package scraper reads page metadata used to name new links.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mateconpizza/rotato"
)

var (
	ErrScrapeNotStarted  = errors.New("scrape not started")
	ErrNoTitle           = errors.New("page has no title")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrResponseStatus    = errors.New("unexpected response status")
)

const (
	defaultTimeout  = 15 * time.Second
	maxBodyBytes    = 10 * 1024 * 1024 // 10MB limit
	defaultAccept   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	defaultLanguage = "en-US,en;q=0.5"
)

type OptFn func(*Options)

type Options struct {
	ctx       context.Context
	client    *http.Client
	userAgent string
	spinner   bool
}

type Scraper struct {
	Options
	uri     string
	doc     *goquery.Document
	started bool
}

func WithContext(ctx context.Context) OptFn {
	return func(o *Options) {
		o.ctx = ctx
	}
}

// WithClient replaces the default http client.
func WithClient(c *http.Client) OptFn {
	return func(o *Options) {
		o.client = c
	}
}

func WithUserAgent(s string) OptFn {
	return func(o *Options) {
		if s != "" {
			o.userAgent = s
		}
	}
}

func WithSpinner() OptFn {
	return func(o *Options) {
		o.spinner = true
	}
}

func defaults() *Options {
	return &Options{
		ctx:       context.Background(),
		userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	}
}

// New creates a new Scraper for the URL s.
func New(s string, opts ...OptFn) *Scraper {
	o := defaults()
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		o.client = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Scraper{Options: *o, uri: s}
}

// Start fetches and parses the page.
func (s *Scraper) Start() error {
	if s.started {
		return nil
	}

	sp := rotato.New(
		rotato.WithMesg("scraping webpage..."),
		rotato.WithMesgColor(rotato.ColorYellow),
		rotato.WithSpinnerColor(rotato.ColorBrightMagenta),
	)

	if s.spinner {
		sp.Start()
		defer sp.Done()
	}

	doc, err := s.fetch()
	if err != nil {
		return err
	}

	s.doc = doc
	s.started = true

	return nil
}

// Title returns the trimmed content of the page <title>.
func (s *Scraper) Title() (string, error) {
	if !s.started {
		return "", ErrScrapeNotStarted
	}

	t := strings.TrimSpace(s.doc.Find("title").First().Text())
	if t == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTitle, s.uri)
	}

	return strings.Join(strings.Fields(t), " "), nil
}

// Desc returns the page description, or an empty string.
func (s *Scraper) Desc() (string, error) {
	if !s.started {
		return "", ErrScrapeNotStarted
	}

	for _, selector := range []string{
		"meta[name='description']",
		"meta[property='description']",
		"meta[property='og:description']",
		"meta[name='og:description']",
	} {
		if d := s.doc.Find(selector).AttrOr("content", ""); d != "" {
			return strings.TrimSpace(d), nil
		}
	}

	return "", nil
}

func (s *Scraper) setHeaders(r *http.Request) {
	r.Header.Set("User-Agent", s.userAgent)
	r.Header.Set("Accept", defaultAccept)
	r.Header.Set("Accept-Language", defaultLanguage)
	r.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (s *Scraper) fetch() (*goquery.Document, error) {
	u, err := url.Parse(strings.TrimSpace(s.uri))
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", s.uri, err)
	}

	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, s.uri)
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.setHeaders(req)

	startTime := time.Now()

	res, err := s.client.Do(req)
	if err != nil {
		slog.Warn("request failed", "url", s.uri, "error", err, "duration", time.Since(startTime))
		return nil, fmt.Errorf("fetching %q: %w", s.uri, err)
	}

	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("error closing response body", "url", s.uri, "error", err)
		}
	}()

	slog.Info("received response", "url", s.uri, "status", res.StatusCode, "duration", time.Since(startTime))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrResponseStatus, res.Status)
	}

	if ct := res.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "html") {
		slog.Warn("unexpected content type", "url", s.uri, "content_type", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return doc, nil
}
