package httpcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_CachesOnDisk(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"openapi": "3.0.3"}`))
	}))
	defer server.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	doc, err := cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Equal(t, 1, requests)

	// Second fetch is served from disk.
	doc, err = cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Equal(t, 1, requests)

	_, err = os.Stat(cache.Path(server.URL))
	assert.NoError(t, err)
}

func TestRefresh_BypassesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"n": 1}`))
	}))
	defer server.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = cache.Refresh(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestFetch_YAMLBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("openapi: 3.0.3\ninfo:\n  title: Test\n"))
	}))
	defer server.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	doc, err := cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc["openapi"])

	// The cached copy is JSON regardless of the fetched format.
	data, err := os.ReadFile(cache.Path(server.URL))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
}

func TestFetch_CorruptCacheEntryRefetched(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cache.Path(server.URL), []byte("not json"), 0o644))

	doc, err := cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, true, doc["ok"])
	assert.Equal(t, 1, requests)
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cache, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPath_Deterministic(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	a := cache.Path("https://example.com/spec.yaml")
	assert.Equal(t, a, cache.Path("https://example.com/spec.yaml"))
	assert.NotEqual(t, a, cache.Path("https://example.com/other.yaml"))
	assert.True(t, strings.HasSuffix(a, ".json"))
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Contains(t, doc, "a")

	doc, err = Decode([]byte("a: 1\nb: two\n"))
	require.NoError(t, err)
	assert.Equal(t, "two", doc["b"])

	_, err = Decode([]byte("\t: not yaml"))
	assert.Error(t, err)
}
