package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		url    string
		want   string
	}{
		{"no prefix", "", "https://example.com", "https://example.com"},
		{"with prefix", "https://docs.python.org/3/", "library/functions.html#print", "https://docs.python.org/3/library/functions.html#print"},
		{"empty url", "https://docs.scipy.org/doc/numpy/", "reference/", "https://docs.scipy.org/doc/numpy/reference/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.prefix, tt.url))
		})
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"cli", "db", "go"}, ParseTags("go, cli  db"))
	assert.Equal(t, []string{"go"}, ParseTags("go,go, go"))
	assert.Nil(t, ParseTags(" , "))
	assert.Nil(t, ParseTags(""))
}

func TestLinkEqual(t *testing.T) {
	t.Parallel()

	a := &Link{ID: 1, Name: "Link", URL: "https://example.com", Tags: []string{"b", "a"}}
	b := &Link{ID: 1, Name: "Link", URL: "https://example.com", Tags: []string{"a", "b", "a"}}
	assert.True(t, a.Equal(b), "tags compare as a set")

	b.Visits = 1
	assert.False(t, a.Equal(b))

	var nilLink *Link
	assert.False(t, a.Equal(nilLink))
	assert.True(t, nilLink.Equal(nil))
}

func TestSourceAndTagEqual(t *testing.T) {
	t.Parallel()

	s1 := &Source{ID: 1, Name: "Numpy", URI: "https://docs.scipy.org"}
	s2 := &Source{ID: 1, Name: "Numpy", URI: "https://docs.scipy.org"}
	assert.True(t, s1.Equal(s2))

	s2.Prefix = "https://docs.scipy.org/doc/"
	assert.False(t, s1.Equal(s2))

	assert.True(t, (&Tag{ID: 2, Name: "go"}).Equal(&Tag{ID: 2, Name: "go"}))
	assert.False(t, (&Tag{ID: 2, Name: "go"}).Equal(&Tag{ID: 3, Name: "go"}))
}
