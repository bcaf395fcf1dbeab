package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "llyfrau"
	defaultMaxBytes  = 32 * 1024 * 1024 // 32MB limit
)

// Fetcher retrieves and decodes an inventory.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*Inventory, error)
}

type OptFn func(*Options)

type Options struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// HTTPFetcher reads inventories from http(s) URLs, file:// URLs and local
// paths.
type HTTPFetcher struct {
	Options
}

func WithTimeout(d time.Duration) OptFn {
	return func(o *Options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithUserAgent(s string) OptFn {
	return func(o *Options) {
		if s != "" {
			o.userAgent = s
		}
	}
}

// WithMaxBytes caps the size of the inventory body, a larger body fails with
// ErrTooLarge.
func WithMaxBytes(n int64) OptFn {
	return func(o *Options) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// WithClient replaces the http client, its timeout takes precedence.
func WithClient(c *http.Client) OptFn {
	return func(o *Options) {
		o.client = c
	}
}

func defaults() *Options {
	return &Options{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
	}
}

// NewHTTPFetcher returns a new HTTPFetcher.
func NewHTTPFetcher(opts ...OptFn) *HTTPFetcher {
	o := defaults()
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		o.client = &http.Client{
			Timeout: o.timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &HTTPFetcher{Options: *o}
}

// Fetch retrieves the inventory at location.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (*Inventory, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", location, err)
	}

	var rc io.ReadCloser

	switch u.Scheme {
	case "http", "https":
		rc, err = f.get(ctx, location)
	case "file":
		rc, err = os.Open(u.Path)
	case "":
		rc, err = os.Open(location)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, location)
	}

	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rc.Close(); err != nil {
			slog.Warn("closing inventory", "location", location, "error", err)
		}
	}()

	lr := &sizeLimiter{r: io.LimitReader(rc, f.maxBytes+1), max: f.maxBytes}

	inv, err := Decode(lr)
	if lr.exceeded() {
		return nil, fmt.Errorf("decoding %q: %w: over %d bytes", location, ErrTooLarge, f.maxBytes)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", location, err)
	}

	return inv, nil
}

// sizeLimiter fails the read once more than max bytes went through it.
type sizeLimiter struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *sizeLimiter) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)

	if l.exceeded() {
		return n, ErrTooLarge
	}

	return n, err
}

func (l *sizeLimiter) exceeded() bool {
	return l.read > l.max
}

func (f *HTTPFetcher) get(ctx context.Context, s string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	startTime := time.Now()

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", s, err)
	}

	slog.Info("received response", "url", s, "status", res.StatusCode, "duration", time.Since(startTime))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("%w: %q: %s", ErrFetchStatus, s, res.Status)
	}

	return res.Body, nil
}
