package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/sys"
	"github.com/mateconpizza/llyfrau/internal/sys/files"
)

var ErrInvalidID = errors.New("invalid id")

func initConfig() {
	cfg := config.App
	config.SetVerbosity(cfg.Flags.Verbose)

	// load data home path for the app.
	dataHomePath, err := loadDataPath()
	if err != nil {
		sys.ErrAndExit(err)
	}

	config.SetAppPaths(dataHomePath)
	config.SetDBName(files.EnsureSuffix(cfg.Flags.Name, ".db"))

	// load config from YAML
	f, err := config.Load(cfg.Path.ConfigFile)
	if err != nil {
		sys.ErrAndExit(fmt.Errorf("loading config: %w", err))
	}

	cfg.File = f
}

// loadDataPath loads the path to the application's home directory.
//
// If environment variable LLYFRAU_HOME is not set, uses the data user
// directory.
func loadDataPath() (string, error) {
	e := config.App.Env.Home

	envDataHome := sys.Env(e, "")
	if envDataHome != "" {
		slog.Debug("reading home env", e, envDataHome)

		return config.PathJoin(envDataHome), nil
	}

	dataHome, err := config.DataPath()
	if err != nil {
		return "", fmt.Errorf("loading paths: %w", err)
	}

	slog.Debug("home app", "path", dataHome)

	return dataHome, nil
}

// PrettyVersion formats version in a pretty way.
func PrettyVersion() string {
	return fmt.Sprintf("%s v%s %s/%s", config.App.Name, config.App.Info.Version, runtime.GOOS, runtime.GOARCH)
}

// OpenDB opens the selected catalog with the configured driver.
func OpenDB(ctx context.Context, opts ...db.OptFn) (*db.SQLite, error) {
	cfg := config.App
	opts = append(opts, db.WithDriver(cfg.File.Driver))

	if cfg.Flags.Verbose > 1 {
		opts = append(opts, db.WithVerbose())
	}

	r, err := db.Open(ctx, cfg.DBPath, opts...)
	if errors.Is(err, db.ErrDBNotFound) {
		return nil, fmt.Errorf("%w: %q, run '%s init'", err, cfg.DBName, cfg.Cmd)
	}

	return r, err
}

// parseID parses a positive record id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return id, nil
}
