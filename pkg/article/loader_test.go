package article

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int32
	body  string
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, _, _ string) (string, error) {
	f.calls.Add(1)
	return f.body, f.err
}

func TestLoaderCachesSuccess(t *testing.T) {
	f := &countingFetcher{body: "# Dataview\n"}
	l := NewLoader(f)
	ctx := context.Background()

	first := l.Load(ctx, "Obsidian", "Dataview.md")
	second := l.Load(ctx, "Obsidian", "Dataview.md")

	assert.Equal(t, "# Dataview\n", first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.EqualValues(t, 1, l.Fetches())
}

func TestLoaderCachesFallback(t *testing.T) {
	f := &countingFetcher{err: errors.New("boom")}
	l := NewLoader(f)
	ctx := context.Background()

	first := l.Load(ctx, "Blender", "Blender基础.md")
	require.Contains(t, first, "# Blender基础")
	require.Contains(t, first, "boom")

	// The content becoming available later does not change the answer.
	f.err = nil
	f.body = "# real"
	second := l.Load(ctx, "Blender", "Blender基础.md")
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestLoaderDoesNotCacheCancelledLoads(t *testing.T) {
	f := &countingFetcher{err: context.Canceled}
	l := NewLoader(f)

	_ = l.Load(context.Background(), "Obsidian", "数学块.md")
	f.err = nil
	f.body = "# 数学块"
	assert.Equal(t, "# 数学块", l.Load(context.Background(), "Obsidian", "数学块.md"))
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestLoaderConcurrentLoadsShareFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	fetcher := fetchFunc(func(ctx context.Context, _, _ string) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	})
	l := NewLoader(fetcher)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Load(context.Background(), "Obsidian", "Dataview.md")
		}(i)
	}
	// Let the goroutines pile up on the in-flight call before releasing it.
	for {
		l.mu.Lock()
		n := len(l.inflight)
		l.mu.Unlock()
		if n == 1 {
			break
		}
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestLoaderMirror(t *testing.T) {
	mirror := NewMemoryCache()
	mirror.Set(Key("Obsidian", "Dataview.md"), "# mirrored")
	f := &countingFetcher{body: "# fetched"}

	l := NewLoader(f, WithMirror(mirror))
	assert.Equal(t, "# mirrored", l.Load(context.Background(), "Obsidian", "Dataview.md"))
	assert.EqualValues(t, 0, f.calls.Load())

	assert.Equal(t, "# fetched", l.Load(context.Background(), "Blender", "Blender基础.md"))
	body, ok := mirror.Get(Key("Blender", "Blender基础.md"))
	require.True(t, ok)
	assert.Equal(t, "# fetched", body)
}

func TestLoaderMirrorSkipsFallback(t *testing.T) {
	mirror := NewMemoryCache()
	l := NewLoader(&countingFetcher{err: errors.New("offline")}, WithMirror(mirror))
	_ = l.Load(context.Background(), "Obsidian", "数学块.md")
	assert.Equal(t, 0, mirror.Len())
}

func TestFallbackIsDeterministic(t *testing.T) {
	err := errors.New("status 404")
	assert.Equal(t, Fallback("x.md", err), Fallback("x.md", err))
	assert.Contains(t, Fallback("x.md", nil), "unknown error")
}

func TestHTTPFetcher(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.EscapedPath()
		mu.Unlock()
		if r.URL.Path == "/Document/Obsidian/missing.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# 数学块\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/Document", srv.Client())
	body, err := f.Fetch(context.Background(), "Obsidian", "数学块.md")
	require.NoError(t, err)
	assert.Equal(t, "# 数学块\n", body)
	mu.Lock()
	assert.Equal(t, "/Document/Obsidian/%E6%95%B0%E5%AD%A6%E5%9D%97.md", gotPath)
	mu.Unlock()

	_, err = f.Fetch(context.Background(), "Obsidian", "missing.md")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = f.Fetch(context.Background(), "..", "x.md")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestHTTPFetcherRejectsOversizedArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := maxArticleSize
		if r.URL.Path == "/Obsidian/big.md" {
			size++
		}
		_, _ = w.Write([]byte(strings.Repeat("a", size)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, srv.Client())
	body, err := f.Fetch(context.Background(), "Obsidian", "limit.md")
	require.NoError(t, err)
	assert.Len(t, body, maxArticleSize)

	_, err = f.Fetch(context.Background(), "Obsidian", "big.md")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"Document/Blender/Blender基础.md": {Data: []byte("# Blender基础\n")},
	}
	f := &FSFetcher{FS: fsys, Root: "Document"}

	body, err := f.Fetch(context.Background(), "Blender", "Blender基础.md")
	require.NoError(t, err)
	assert.Equal(t, "# Blender基础\n", body)

	_, err = f.Fetch(context.Background(), "Blender", "nope.md")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "Blender", "../x.md")
	assert.ErrorIs(t, err, ErrInvalidName)
}

type fetchFunc func(ctx context.Context, category, filename string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, category, filename string) (string, error) {
	return f(ctx, category, filename)
}
