// Package httpcache fetches remote documents over HTTP(S) and caches the
// decoded content on disk, keyed by a hash of the URL. It backs external
// reference resolution so each remote spec is downloaded at most once.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Cache stores fetched documents as JSON files under a cache directory.
// It is safe to share across resolutions; entries survive process restarts.
type Cache struct {
	dir    string
	client *http.Client
}

// DefaultDir returns the default cache directory (~/.sdkgen/cache).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sdkgen-cache")
	}
	return filepath.Join(home, ".sdkgen", "cache")
}

// New creates a cache rooted at dir, creating the directory if needed.
// An empty dir selects DefaultDir.
func New(dir string) (*Cache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, client: http.DefaultClient}, nil
}

// WithClient replaces the HTTP client, e.g. to set a timeout.
func (c *Cache) WithClient(client *http.Client) *Cache {
	c.client = client
	return c
}

// Path returns the cache file path for a URL. The file may not exist yet.
func (c *Cache) Path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Fetch returns the document at url, serving from the cache when present.
func (c *Cache) Fetch(ctx context.Context, url string) (map[string]any, error) {
	return c.fetch(ctx, url, false)
}

// Refresh bypasses the cache and refetches the document.
func (c *Cache) Refresh(ctx context.Context, url string) (map[string]any, error) {
	return c.fetch(ctx, url, true)
}

func (c *Cache) fetch(ctx context.Context, url string, force bool) (map[string]any, error) {
	path := c.Path(url)

	if !force {
		if data, err := os.ReadFile(path); err == nil {
			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err == nil {
				return doc, nil
			}
			// Corrupt cache entry: fall through and refetch.
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	if data, err := json.Marshal(doc); err == nil {
		// Cache write failures are not fatal; the fetch already succeeded.
		_ = os.WriteFile(path, data, 0o644)
	}

	return doc, nil
}

// Decode parses a JSON or YAML document body into a raw tree. JSON is
// tried first; anything that fails JSON decoding is treated as YAML.
func Decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
