package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "links.db", EnsureSuffix("links", ".db"))
	assert.Equal(t, "links.db", EnsureSuffix("links.db", ".db"))
	assert.Empty(t, EnsureSuffix("", ".db"))
}

func TestMkdirAll(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, MkdirAll(p))
	assert.True(t, Exists(p))
	require.NoError(t, MkdirAll(p), "existing path is not an error")
	assert.ErrorIs(t, MkdirAll(""), ErrPathEmpty)
}

func TestWriteNew(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "conf", "config.yml")
	require.NoError(t, WriteNew(p, []byte("a: 1\n"), false))
	assert.ErrorIs(t, WriteNew(p, []byte("a: 2\n"), false), ErrFileExists)
	require.NoError(t, WriteNew(p, []byte("a: 3\n"), true))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a: 3\n", string(b))
}
