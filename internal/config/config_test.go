package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/llyfrau/internal/sys/files"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), configFilename))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), configFilename)
	content := "driver: sqlite3\nimport:\n  timeout: 5s\n  concurrency: 8\n"
	require.NoError(t, os.WriteFile(p, []byte(content), files.FilePerm))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Driver)
	assert.Equal(t, 5*time.Second, cfg.Import.Timeout)
	assert.Equal(t, 8, cfg.Import.Concurrency)
	assert.Equal(t, Defaults().Import.UserAgent, cfg.Import.UserAgent)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown driver":   "driver: postgres\n",
		"zero concurrency": "import:\n  concurrency: 0\n",
		"negative timeout": "import:\n  timeout: -1s\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := filepath.Join(t.TempDir(), configFilename)
			require.NoError(t, os.WriteFile(p, []byte(content), files.FilePerm))

			_, err := Load(p)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join(t.TempDir(), configFilename)
		require.NoError(t, os.WriteFile(p, []byte("driver: [sqlite"), files.FilePerm))

		_, err := Load(p)
		assert.Error(t, err)
	})
}

func TestDumpAndLoad(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "nested", configFilename)

	want := Defaults()
	want.Import.Concurrency = 2
	require.NoError(t, Dump(p, want, false))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "timeout: 30s")

	require.ErrorIs(t, Dump(p, Defaults(), false), files.ErrFileExists)
	require.NoError(t, Dump(p, Defaults(), true))
}

func TestShortSource(t *testing.T) {
	t.Parallel()

	src := &slog.Source{File: "/home/user/llyfrau/internal/db/sqlite.go", Line: 10}
	a := shortSource(nil, slog.Any(slog.SourceKey, src))
	assert.Equal(t, filepath.Join("db", "sqlite.go"), a.Value.Any().(*slog.Source).File)

	other := slog.String("msg", "x")
	assert.Equal(t, other, shortSource(nil, other))
}

func TestSetAppPaths(t *testing.T) {
	dataPath, dbName := App.Path.Data, App.DBName
	t.Cleanup(func() {
		SetAppPaths(dataPath)
		App.DBName = dbName
	})

	SetAppPaths("/tmp/llyfrau")
	SetDBName("work.db")
	assert.Equal(t, filepath.Join("/tmp/llyfrau", configFilename), App.Path.ConfigFile)
	assert.Equal(t, filepath.Join("/tmp/llyfrau", "work.db"), App.DBPath)
}
