package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/sys/files"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	defaultImportTimeout     = 30 * time.Second
	defaultImportConcurrency = 4
)

// ConfigFile represents the configuration file.
type ConfigFile struct {
	Driver string       `yaml:"driver"` // sqlite (modernc) or sqlite3 (mattn)
	Import ImportConfig `yaml:"import"`
}

// ImportConfig holds the inventory import settings.
type ImportConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"user_agent"`
}

// Defaults returns the default configuration.
func Defaults() *ConfigFile {
	return &ConfigFile{
		Driver: db.DriverModernc,
		Import: ImportConfig{
			Timeout:     defaultImportTimeout,
			Concurrency: defaultImportConcurrency,
			UserAgent:   appName + "/" + version,
		},
	}
}

// Validate checks the values of the config file.
func (c *ConfigFile) Validate() error {
	if c.Driver != db.DriverModernc && c.Driver != db.DriverMattn {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}

	if c.Import.Concurrency <= 0 {
		return fmt.Errorf("%w: import concurrency must be positive, got %d", ErrInvalidConfig, c.Import.Concurrency)
	}

	if c.Import.Timeout < 0 {
		return fmt.Errorf("%w: negative import timeout %s", ErrInvalidConfig, c.Import.Timeout)
	}

	return nil
}

// Load reads the config file at p over the defaults. A missing file yields
// the defaults.
func Load(p string) (*ConfigFile, error) {
	cfg := Defaults()

	content, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("configfile not found, loading defaults", "path", p)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	slog.Info("loading configfile", "path", p)

	return cfg, nil
}

// Dump writes cfg as YAML to p. An existing file is kept unless force is set.
func Dump(p string, cfg *ConfigFile, force bool) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}

	if err := files.WriteNew(p, data, force); err != nil {
		return err
	}

	slog.Info("configfile written", "path", p)

	return nil
}
