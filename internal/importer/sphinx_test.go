package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/inventory"
)

// fakeFetcher serves inventories from memory and records the requested
// locations.
type fakeFetcher struct {
	mu   sync.Mutex
	got  []string
	invs map[string]*inventory.Inventory
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, location string) (*inventory.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.got = append(f.got, location)
	if f.err != nil {
		return nil, f.err
	}

	inv, ok := f.invs[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrFetchStatus, location)
	}

	return inv, nil
}

func singleObject(name string) *inventory.Inventory {
	return &inventory.Inventory{
		Project: "Example",
		Version: "1.0",
		Objects: []inventory.Object{
			{Name: name, Domain: "py", Role: "function", Priority: 1, URI: name + ".html", DisplayName: "-"},
		},
	}
}

func pythonInventory() *inventory.Inventory {
	return &inventory.Inventory{
		Project: "Python",
		Version: "1.0",
		Objects: []inventory.Object{
			{Name: "print", Domain: "py", Role: "function", Priority: 1, URI: "builtins.html#$", DisplayName: "-"},
			{Name: "enumerate", Domain: "py", Role: "function", Priority: 1, URI: "builtins.html#$", DisplayName: "function: Enumerate"},
		},
	}
}

func setupTestDB(t *testing.T) *db.SQLite {
	t.Helper()

	r, err := db.Open(t.Context(), fmt.Sprintf("file:importer_%d?mode=memory", time.Now().UnixNano()), db.WithCreate())
	require.NoError(t, err)
	t.Cleanup(r.Close)

	return r
}

func TestInventoryURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{"https://docs.python.org/3/objects.inv", "https://docs.python.org/3/objects.inv"},
		{"https://docs.python.org/2/", "https://docs.python.org/2/objects.inv"},
		{"https://docs.python.org/1", "https://docs.python.org/1/objects.inv"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InventoryURL(tt.base), tt.base)
	}
}

func TestSphinxRequestsInventoryURL(t *testing.T) {
	t.Parallel()

	for base, want := range map[string]string{
		"https://docs.python.org/3/objects.inv": "https://docs.python.org/3/objects.inv",
		"https://docs.python.org/2/":            "https://docs.python.org/2/objects.inv",
		"https://docs.python.org/1":             "https://docs.python.org/1/objects.inv",
	} {
		t.Run(base, func(t *testing.T) {
			t.Parallel()

			f := &fakeFetcher{invs: map[string]*inventory.Inventory{want: singleObject("foo")}}
			_, err := Sphinx(t.Context(), setupTestDB(t), base, WithFetcher(f))
			require.NoError(t, err)
			assert.Equal(t, []string{want}, f.got)
		})
	}
}

func TestSphinx(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{
		"https://docs.python.org/objects.inv": pythonInventory(),
	}}

	res, err := Sphinx(ctx, r, "https://docs.python.org/", WithFetcher(f))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Links)

	src, err := r.SourceByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Python - 1.0 | Sphinx Docs", src.Name)
	assert.Equal(t, "https://docs.python.org/", src.Prefix)
	assert.Equal(t, "https://docs.python.org/objects.inv", src.URI)
	assert.Equal(t, "https://docs.python.org/objects.inv", res.Source.URI)
	assert.Equal(t, res.Source, src)

	links, err := r.SearchLinks(ctx, db.LinkQuery{})
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, "print", links[0].Name)
	assert.Equal(t, "builtins.html#print", links[0].URL)
	assert.Equal(t, src.ID, links[0].SourceID)
	assert.Equal(t, []string{"function", "py", "sphinx"}, links[0].Tags)

	assert.Equal(t, "function: Enumerate", links[1].Name)
	assert.Equal(t, "builtins.html#enumerate", links[1].URL)

	owner, err := r.LinkSource(ctx, links[1])
	require.NoError(t, err)
	assert.Equal(t, src, owner)

	u, err := r.ResolveURL(ctx, links[0])
	require.NoError(t, err)
	assert.Equal(t, "https://docs.python.org/builtins.html#print", u)
}

func TestSphinxReusesTags(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{
		"https://a.example.com/objects.inv": pythonInventory(),
		"https://b.example.com/objects.inv": singleObject("foo"),
	}}

	_, err := Sphinx(ctx, r, "https://a.example.com", WithFetcher(f))
	require.NoError(t, err)
	_, err = Sphinx(ctx, r, "https://b.example.com", WithFetcher(f))
	require.NoError(t, err)

	counts, err := r.TagsCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"sphinx": 3, "py": 3, "function": 3}, counts)
}

func TestSphinxFetchError(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)

	errNetwork := errors.New("connection refused")
	_, err := Sphinx(t.Context(), r, "https://docs.python.org/", WithFetcher(&fakeFetcher{err: errNetwork}))
	require.ErrorIs(t, err, errNetwork)

	n, err := r.CountSources(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSphinxIsAtomic(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()

	inv := pythonInventory()
	inv.Objects = append(inv.Objects, inventory.Object{Name: "broken", Domain: "py", Role: "function"}) // no uri

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{"https://docs.python.org/objects.inv": inv}}
	_, err := Sphinx(ctx, r, "https://docs.python.org/", WithFetcher(f))
	require.ErrorIs(t, err, db.ErrIntegrity)

	for _, count := range []func(context.Context) (int, error){r.CountSources, r.CountLinks, r.CountTags} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestSphinxMany(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{
		"https://a.example.com/objects.inv": singleObject("a"),
		"https://b.example.com/objects.inv": pythonInventory(),
		"https://c.example.com/objects.inv": singleObject("c"),
	}}

	bases := []string{"https://a.example.com", "https://b.example.com/", "https://c.example.com/objects.inv"}

	results, err := SphinxMany(ctx, r, bases, WithFetcher(f), WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, int64(i+1), res.Source.ID, "sources are stored in input order")
		assert.Equal(t, bases[i], res.Source.Prefix)
	}

	assert.Equal(t, 2, results[1].Links)
	assert.ElementsMatch(t, []string{
		"https://a.example.com/objects.inv",
		"https://b.example.com/objects.inv",
		"https://c.example.com/objects.inv",
	}, f.got)
}

func TestSphinxManyFetchError(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{
		"https://a.example.com/objects.inv": singleObject("a"),
	}}

	_, err := SphinxMany(t.Context(), r, []string{"https://a.example.com", "https://missing.example.com"}, WithFetcher(f))
	require.ErrorIs(t, err, inventory.ErrFetchStatus)

	n, err := r.CountSources(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is stored when a fetch fails")
}

func TestSphinxManyStoreError(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()

	broken := singleObject("b")
	broken.Objects[0].URI = ""

	f := &fakeFetcher{invs: map[string]*inventory.Inventory{
		"https://a.example.com/objects.inv": singleObject("a"),
		"https://b.example.com/objects.inv": broken,
		"https://c.example.com/objects.inv": singleObject("c"),
	}}

	bases := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}

	results, err := SphinxMany(ctx, r, bases, WithFetcher(f))
	require.ErrorIs(t, err, db.ErrIntegrity)
	require.Len(t, results, 1)
	assert.Equal(t, "https://a.example.com", results[0].Source.Prefix)

	n, err := r.CountSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "inventories stored before the failure stay committed")

	n, err = r.CountLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSphinxOverHTTP(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)

	var body bytes.Buffer
	require.NoError(t, inventory.Encode(&body, pythonInventory()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/3/objects.inv" {
			http.NotFound(w, req)
			return
		}

		_, _ = w.Write(body.Bytes())
	}))
	defer srv.Close()

	fetcher := inventory.NewHTTPFetcher(inventory.WithClient(srv.Client()))

	res, err := Sphinx(t.Context(), r, srv.URL+"/3/", WithFetcher(fetcher))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Links)
	assert.Equal(t, srv.URL+"/3/", res.Source.Prefix)
	assert.Equal(t, srv.URL+"/3/objects.inv", res.Source.URI)
}
