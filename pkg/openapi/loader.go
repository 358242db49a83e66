// Package openapi loads, validates and parses OpenAPI 3.x documents
// into the raw trees consumed by the resolver and analyzers.
package openapi

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/sdkgen-dev/sdkgen/pkg/httpcache"
)

// LoadDocument loads a raw specification tree from a local file path or
// an HTTP(S) URL. Remote documents go through the default HTTP cache.
func LoadDocument(ctx context.Context, input string) (map[string]any, error) {
	cache, err := httpcache.New("")
	if err != nil {
		return nil, err
	}
	return LoadDocumentWithCache(ctx, cache, input)
}

// LoadDocumentWithCache loads a raw specification tree using the given
// HTTP cache for remote sources.
func LoadDocumentWithCache(ctx context.Context, cache *httpcache.Cache, input string) (map[string]any, error) {
	if IsURL(input) {
		return cache.Fetch(ctx, input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return httpcache.Decode(data)
}

// ValidateDocument validates an OpenAPI document with the full
// kin-openapi validator. Complements ValidateStructure, which only
// checks the fields this pipeline depends on.
func ValidateDocument(input string) error {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loadKinDocument(loader, input)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

func loadKinDocument(loader *openapi3.Loader, input string) (*openapi3.T, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return loader.LoadFromURI(u)
	}
	return loader.LoadFromFile(input)
}

// IsURL reports whether input is an HTTP(S) URL rather than a file path.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// BasePath returns the directory for resolving relative references:
// the parent directory for file sources, the working directory for URLs.
func BasePath(source string) string {
	if IsURL(source) {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	return filepath.Dir(source)
}
