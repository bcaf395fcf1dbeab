// Package db stores sources, links and tags in a SQLite database.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/mateconpizza/llyfrau/internal/sys/files"
)

const (
	MaxOpenConns    = 10        // Maximum number of open connections
	MaxIdleConns    = 5         // Maximum number of idle connections
	MaxLifetimeConn = time.Hour // Maximum connection lifetime
)

// Supported drivers.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// SQLite is a handle to one catalog database.
type SQLite struct {
	DB        *sqlx.DB `json:"-"`
	Cfg       *Cfg     `json:"db"`
	verbose   bool
	closeOnce sync.Once
}

// Name returns the name of the SQLite database.
func (r *SQLite) Name() string {
	return r.Cfg.Name
}

// Close closes the SQLite database connection and logs any errors encountered.
func (r *SQLite) Close() {
	s := r.Name()
	r.closeOnce.Do(func() {
		if err := r.DB.Close(); err != nil {
			slog.Error("closing database", "name", s, "error", err)
		} else {
			slog.Debug("database closed", "name", s)
		}
	})
}

// ext returns the executor used outside a session.
func (r *SQLite) ext() sqlx.ExtContext {
	if r.verbose {
		return traced{r.DB}
	}

	return r.DB
}

type OptFn func(*Options)

type Options struct {
	create  bool
	verbose bool
	driver  string
}

func defaults() *Options {
	return &Options{driver: DriverModernc}
}

// WithCreate creates the database file and its schema when missing.
func WithCreate() OptFn {
	return func(o *Options) {
		o.create = true
	}
}

// WithVerbose logs every SQL statement.
func WithVerbose() OptFn {
	return func(o *Options) {
		o.verbose = true
	}
}

// WithDriver sets the sql driver, DriverModernc or DriverMattn.
func WithDriver(name string) OptFn {
	return func(o *Options) {
		if name != "" {
			o.driver = name
		}
	}
}

// Open opens the database at path p.
//
// Without WithCreate the database must already exist with the full schema,
// otherwise ErrDBNotFound or ErrDBInvalidSchema is returned. An in-memory path
// (":memory:" or a DSN with "mode=memory") always starts empty.
func Open(ctx context.Context, p string, opts ...OptFn) (*SQLite, error) {
	o := defaults()
	for _, fn := range opts {
		fn(o)
	}

	if p == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDBNotFound)
	}

	if o.driver != DriverModernc && o.driver != DriverMattn {
		return nil, fmt.Errorf("%w: %q", ErrDBUnknownDriver, o.driver)
	}

	memory := isMemory(p)
	if !memory {
		switch exists := files.Exists(p); {
		case !exists && !o.create:
			return nil, fmt.Errorf("%w: %q", ErrDBNotFound, p)
		case !exists:
			if err := files.MkdirAll(filepath.Dir(p)); err != nil {
				return nil, fmt.Errorf("%w", err)
			}
		}
	}

	c, err := NewSQLiteCfg(p)
	if err != nil {
		return nil, err
	}

	db, err := OpenDatabase(ctx, o.driver, p)
	if err != nil {
		slog.Error("open", "error", err, "path", p)
		return nil, err
	}

	r := &SQLite{DB: db, Cfg: c, verbose: o.verbose}

	ok, err := r.IsInitialized(ctx)
	if err != nil {
		r.Close()
		return nil, err
	}

	switch {
	case ok:
		return r, nil
	case !o.create:
		r.Close()
		return nil, fmt.Errorf("%w: %q", ErrDBInvalidSchema, p)
	}

	if err := r.Init(ctx); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func isMemory(p string) bool {
	return p == ":memory:" || strings.Contains(p, "mode=memory")
}

// buildSQLiteDSN constructs a SQLite Data Source Name from a file path and
// optional parameters.
func buildSQLiteDSN(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return fmt.Sprintf("%s%s%s", path, separator, params.Encode())
}

// dsnParams returns the connection pragmas for the given driver.
func dsnParams(driver string, memory bool) url.Values {
	v := url.Values{}

	if driver == DriverMattn {
		v.Set("_foreign_keys", "on") // enforce foreign key constraints
		if !memory {
			v.Set("_journal_mode", "WAL")   // enable multi-thread safe mode with wal
			v.Set("_synchronous", "NORMAL") // balance performance and durability
			v.Set("_busy_timeout", "5000")  // set a timeout for a busy database
		}

		return v
	}

	v.Add("_pragma", "foreign_keys(1)")
	if !memory {
		v.Add("_pragma", "journal_mode(WAL)")
		v.Add("_pragma", "synchronous(NORMAL)")
		v.Add("_pragma", "busy_timeout(5000)")
	}

	return v
}

// OpenDatabase opens a SQLite database at the specified path and verifies
// the connection, returning the database handle or an error.
func OpenDatabase(ctx context.Context, driver, path string) (*sqlx.DB, error) {
	slog.Debug("opening database", "path", path, "driver", driver)
	memory := isMemory(path)

	dsn := buildSQLiteDSN(path, dsnParams(driver, memory))

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if memory {
		// every new connection would see its own empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(MaxOpenConns)
		db.SetMaxIdleConns(MaxIdleConns)
		db.SetConnMaxLifetime(MaxLifetimeConn)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: on ping context", err)
	}

	return db, nil
}

// Cfg represents the configuration for a SQLite database.
type Cfg struct {
	Name string `json:"name"` // Name of the SQLite database
	Path string `json:"path"` // Path to the SQLite database
}

// Fullpath returns the full path to the SQLite database.
func (c *Cfg) Fullpath() string {
	if c.Path == "" {
		return c.Name
	}

	return filepath.Join(c.Path, c.Name)
}

// NewSQLiteCfg returns the settings for the database at p.
func NewSQLiteCfg(p string) (*Cfg, error) {
	if isMemory(p) {
		return &Cfg{Name: p}, nil
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", p, err)
	}

	return &Cfg{
		Path: filepath.Dir(abs),
		Name: filepath.Base(abs),
	}, nil
}
