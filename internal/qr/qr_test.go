package qr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	q, err := New("https://docs.python.org/3/")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.python.org/3/", q.From)
	assert.NotEmpty(t, q.String(false))
	assert.NotEqual(t, q.String(false), q.String(true))

	_, err = New("")
	assert.ErrorIs(t, err, ErrQREmpty)
}

func TestRender(t *testing.T) {
	t.Parallel()

	q, err := New("https://www.example.com")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, q.Render(&buf, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, q.String(false)))
	assert.True(t, strings.HasSuffix(out, "https://www.example.com\n"))
}
