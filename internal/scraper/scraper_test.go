package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = fmt.Fprintln(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"simple", `<html><head><title>Test Title</title></head></html>`, "Test Title"},
		{"whitespace", "<title>\n   NumPy   Reference\n</title>", "NumPy Reference"},
		{"first title", `<title>One</title><svg><title>Two</title></svg>`, "One"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := createTestServer(t, http.StatusOK, tt.body)
			s := New(srv.URL, WithContext(t.Context()), WithClient(srv.Client()))
			require.NoError(t, s.Start())

			got, err := s.Title()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleMissing(t *testing.T) {
	t.Parallel()

	srv := createTestServer(t, http.StatusOK, `<html><body>no title</body></html>`)
	s := New(srv.URL, WithClient(srv.Client()))
	require.NoError(t, s.Start())

	_, err := s.Title()
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestDesc(t *testing.T) {
	t.Parallel()

	srv := createTestServer(t, http.StatusOK, `<head><meta property="og:description" content=" A description "></head>`)
	s := New(srv.URL, WithClient(srv.Client()))
	require.NoError(t, s.Start())

	got, err := s.Desc()
	require.NoError(t, err)
	assert.Equal(t, "A description", got)
}

func TestNotStarted(t *testing.T) {
	t.Parallel()

	s := New("https://example.com")
	_, err := s.Title()
	require.ErrorIs(t, err, ErrScrapeNotStarted)
	_, err = s.Desc()
	require.ErrorIs(t, err, ErrScrapeNotStarted)
}

func TestStartErrors(t *testing.T) {
	t.Parallel()

	srv := createTestServer(t, http.StatusNotFound, `<title>Not Found</title>`)
	s := New(srv.URL, WithClient(srv.Client()))
	require.ErrorIs(t, s.Start(), ErrResponseStatus)

	s = New("ftp://example.com/file")
	require.ErrorIs(t, s.Start(), ErrUnsupportedScheme)
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "<title>%s</title>", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	s := New(srv.URL, WithClient(srv.Client()), WithUserAgent("llyfrau-test"))
	require.NoError(t, s.Start())

	got, err := s.Title()
	require.NoError(t, err)
	assert.Equal(t, "llyfrau-test", got)
}
