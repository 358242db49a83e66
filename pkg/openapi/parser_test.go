package openapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdkgen-dev/sdkgen/pkg/httpcache"
)

func validSpec() map[string]any {
	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "Test API",
			"version": "0.1.0",
		},
		"paths": map[string]any{},
	}
}

func TestValidateStructure(t *testing.T) {
	require.NoError(t, ValidateStructure(validSpec()))
}

func TestValidateStructure_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing openapi", func(s map[string]any) { delete(s, "openapi") }, "openapi"},
		{"swagger 2.0", func(s map[string]any) { s["openapi"] = "2.0" }, "openapi"},
		{"missing info", func(s map[string]any) { delete(s, "info") }, "info"},
		{"missing title", func(s map[string]any) { delete(s["info"].(map[string]any), "title") }, "info.title"},
		{"missing version", func(s map[string]any) { delete(s["info"].(map[string]any), "version") }, "info.version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)
			err := ValidateStructure(spec)
			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.field, serr.Field)
		})
	}
}

func TestParse_LocalFileWithReference(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "api.yaml")
	spec := `
openapi: 3.0.3
info:
  title: Test API
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
`
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))

	cache, err := httpcache.New(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	parser, err := NewParser(cache)
	require.NoError(t, err)

	resolved, err := parser.Parse(context.Background(), specPath)
	require.NoError(t, err)

	schema := dig(t, resolved, "paths", "/pets", "get", "responses", "200", "content", "application/json", "schema")
	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$ref")
}

func TestParseWithoutResolving_KeepsReferences(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "api.json")
	spec := `{
  "openapi": "3.0.3",
  "info": {"title": "Test API", "version": "1.0.0"},
  "paths": {},
  "components": {"schemas": {"A": {"$ref": "#/components/schemas/B"}, "B": {"type": "string"}}}
}`
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))

	cache, err := httpcache.New(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	parser, err := NewParser(cache)
	require.NoError(t, err)

	doc, err := parser.ParseWithoutResolving(context.Background(), specPath)
	require.NoError(t, err)

	a := dig(t, doc, "components", "schemas", "A")
	assert.Equal(t, "#/components/schemas/B", a["$ref"])
}

func TestExtractMetadata(t *testing.T) {
	spec := map[string]any{
		"info": map[string]any{
			"title":       "Test API",
			"version":     "2.0.0",
			"description": "desc",
			"license":     map[string]any{"name": "MIT"},
		},
		"servers": []any{
			map[string]any{"url": "https://a.example.com"},
			map[string]any{"url": "https://b.example.com"},
		},
	}

	md := ExtractMetadata(spec)
	assert.Equal(t, "Test API", md.Title)
	assert.Equal(t, "2.0.0", md.Version)
	assert.Equal(t, "desc", md.Description)
	assert.Equal(t, "MIT", md.License)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, md.Servers)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://a.example.com", BaseURL(map[string]any{
		"servers": []any{map[string]any{"url": "https://a.example.com"}},
	}))
	assert.Equal(t, "", BaseURL(map[string]any{}))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/spec.yaml"))
	assert.True(t, IsURL("http://example.com/spec.json"))
	assert.False(t, IsURL("./spec.yaml"))
	assert.False(t, IsURL("/abs/spec.yaml"))
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "/specs", BasePath("/specs/api.yaml"))
}

func dig(t *testing.T, node map[string]any, keys ...string) map[string]any {
	t.Helper()
	current := node
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		require.True(t, ok, "key %q missing or not a map", key)
		current = next
	}
	return current
}
