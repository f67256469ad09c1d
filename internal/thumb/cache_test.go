package thumb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(t *testing.T, server *httptest.Server) *Cache {
	t.Helper()
	cache, err := NewCache(CacheConfig{Dir: t.TempDir(), HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

func TestCacheReusesFreshFile(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()
	imageURL := server.URL + "/photo-1.jpg?w=200"

	path, err := cache.Fetch(ctx, imageURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Fatalf("unexpected extension: %s", path)
	}
	path2, err := cache.Fetch(ctx, imageURL)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if path != path2 {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected single download, got %d hits", hits.Load())
	}
}

func TestCacheRevalidatesStaleFile(t *testing.T) {
	t.Parallel()

	var conditional atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional.Store(true)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("original"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()
	imageURL := server.URL + "/photo-2.png"

	path, err := cache.Fetch(ctx, imageURL)
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := cache.Fetch(ctx, imageURL); err != nil {
		t.Fatalf("conditional fetch: %v", err)
	}
	if !conditional.Load() {
		t.Fatal("expected a conditional request for the stale copy")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "original" {
		t.Fatalf("not-modified response changed the file: %q", data)
	}
}

func TestCacheResumesPartialDownload(t *testing.T) {
	t.Parallel()

	var rangeHeader atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader.Store(r.Header.Get("Range"))
		w.Header().Set("Etag", `"resume"`)
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("world"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	imageURL := server.URL + "/photo-3.jpg"
	imagePath, metaPath, partPath := cache.pathsFor(cacheKey(imageURL), imageURL)

	if err := os.WriteFile(partPath, []byte("hello "), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	if err := writeMeta(metaPath, imageMeta{ETag: `"resume"`}); err != nil {
		t.Fatalf("write meta: %v", err)
	}

	path, err := cache.Fetch(context.Background(), imageURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != imagePath {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached image: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("resume failed, got %q", data)
	}
	if got := rangeHeader.Load(); got != fmt.Sprintf("bytes=%d-", len("hello ")) {
		t.Fatalf("expected range header, got %v", got)
	}
	if _, err := os.Stat(partPath); !os.IsNotExist(err) {
		t.Fatalf("partial file should be renamed away, err=%v", err)
	}
}

func TestCacheFallsBackToStaleCopy(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("cached"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()
	imageURL := server.URL + "/photo-4.gif"

	path, err := cache.Fetch(ctx, imageURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	fail.Store(true)

	path2, err := cache.Fetch(ctx, imageURL)
	if err != nil {
		t.Fatalf("stale copy should be served on failure: %v", err)
	}
	if path2 != path {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
}

func TestCacheReportsFailureWithoutCopy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := newTestCache(t, server).Fetch(context.Background(), server.URL+"/nope.jpg")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestNewCacheHonoursEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thumbs")
	t.Setenv(CacheEnvVar, dir)

	cache, err := NewCache(CacheConfig{})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if cache.Dir() != dir {
		t.Fatalf("dir = %s, want %s", cache.Dir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}
}

func TestImageExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://images.example/a.JPG", ".jpg"},
		{"https://images.unsplash.com/photo-1?fm=png&w=200", ".png"},
		{"https://images.unsplash.com/photo-1?ixid=abc", ".img"},
	}
	for _, tt := range tests {
		if got := imageExt(tt.in); got != tt.want {
			t.Errorf("imageExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheSharesConcurrentDownloads(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	started := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(150 * time.Millisecond)
		_, _ = w.Write([]byte("slowbytes"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	imageURL := server.URL + "/a.jpg"

	type result struct {
		path string
		err  error
	}
	results := make(chan result, 2)
	fetch := func() {
		path, err := cache.Fetch(context.Background(), imageURL)
		results <- result{path, err}
	}
	go fetch()
	<-started
	go fetch()

	var paths []string
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			t.Fatalf("concurrent fetch %d: %v", i, res.err)
		}
		paths = append(paths, res.path)
	}
	if paths[0] != paths[1] {
		t.Fatalf("paths differ: %v", paths)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "slowbytes" {
		t.Fatalf("cached body = %q", data)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one download, got %d", hits.Load())
	}
}
