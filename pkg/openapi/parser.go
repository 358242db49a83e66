package openapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdkgen-dev/sdkgen/pkg/httpcache"
	"github.com/sdkgen-dev/sdkgen/pkg/resolver"
)

// StructuralError reports a malformed specification: a missing required
// top-level field or an unsupported major version. Fatal, never retried.
type StructuralError struct {
	Field   string
	Message string
}

func (e *StructuralError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid specification: %s (field %q)", e.Message, e.Field)
	}
	return "invalid specification: " + e.Message
}

// Parser loads, validates and optionally resolves OpenAPI documents.
type Parser struct {
	cache *httpcache.Cache
}

// NewParser creates a Parser. A nil cache selects the default one.
func NewParser(cache *httpcache.Cache) (*Parser, error) {
	if cache == nil {
		var err error
		cache, err = httpcache.New("")
		if err != nil {
			return nil, err
		}
	}
	return &Parser{cache: cache}, nil
}

// Parse loads the document at source, validates its structure and
// resolves every reference. The base path for relative file references
// is derived from the source location.
func (p *Parser) Parse(ctx context.Context, source string) (map[string]any, error) {
	return p.parse(ctx, source, true)
}

// ParseWithoutResolving loads and validates the document but leaves
// references in place.
func (p *Parser) ParseWithoutResolving(ctx context.Context, source string) (map[string]any, error) {
	return p.parse(ctx, source, false)
}

func (p *Parser) parse(ctx context.Context, source string, resolveRefs bool) (map[string]any, error) {
	spec, err := LoadDocumentWithCache(ctx, p.cache, source)
	if err != nil {
		return nil, err
	}

	if err := ValidateStructure(spec); err != nil {
		return nil, err
	}

	if !resolveRefs {
		return spec, nil
	}

	r := resolver.New(
		resolver.WithBasePath(BasePath(source)),
		resolver.WithFetcher(p.cache),
	)
	return r.Resolve(ctx, spec)
}

// ValidateStructure checks the fields the pipeline depends on: an
// "openapi" version with major version 3, and info.title/info.version.
// Semantic validation belongs to ValidateDocument.
func ValidateStructure(spec map[string]any) error {
	version, ok := spec["openapi"].(string)
	if !ok {
		return &StructuralError{Field: "openapi", Message: "missing required field"}
	}
	if !strings.HasPrefix(version, "3.") {
		return &StructuralError{
			Field:   "openapi",
			Message: fmt.Sprintf("unsupported OpenAPI version %q, only 3.x is supported", version),
		}
	}

	info, ok := spec["info"].(map[string]any)
	if !ok {
		return &StructuralError{Field: "info", Message: "missing required field"}
	}
	if _, ok := info["title"].(string); !ok {
		return &StructuralError{Field: "info.title", Message: "missing required field"}
	}
	if _, ok := info["version"].(string); !ok {
		return &StructuralError{Field: "info.version", Message: "missing required field"}
	}
	return nil
}

// Metadata is the document-level information extracted for generators.
type Metadata struct {
	Title       string
	Version     string
	Description string
	License     string
	Servers     []string
}

// ExtractMetadata reads the common info fields from a specification.
func ExtractMetadata(spec map[string]any) Metadata {
	var md Metadata
	if info, ok := spec["info"].(map[string]any); ok {
		md.Title, _ = info["title"].(string)
		md.Version, _ = info["version"].(string)
		md.Description, _ = info["description"].(string)
		if license, ok := info["license"].(map[string]any); ok {
			md.License, _ = license["name"].(string)
		}
	}
	if servers, ok := spec["servers"].([]any); ok {
		for _, raw := range servers {
			if server, ok := raw.(map[string]any); ok {
				if u, ok := server["url"].(string); ok {
					md.Servers = append(md.Servers, u)
				}
			}
		}
	}
	return md
}

// BaseURL returns the first declared server URL, or "".
func BaseURL(spec map[string]any) string {
	if servers, ok := spec["servers"].([]any); ok && len(servers) > 0 {
		if server, ok := servers[0].(map[string]any); ok {
			u, _ := server["url"].(string)
			return u
		}
	}
	return ""
}
