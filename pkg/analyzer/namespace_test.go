package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNamespaceFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/users", "v1"},
		{"/v2/products", "v2"},
		{"/beta/features", "beta"},
		{"/alpha/things", "alpha"},
		{"/canary/x", "canary"},
		{"/preview/x", "preview"},
		{"/users", ""},
		{"/version/users", ""},
		{"/api/users", ""},
		{"/users/v3/nested", "v3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractNamespaceFromPath(tt.path), "path %q", tt.path)
	}
}

func TestExtractNamespaceFromURL(t *testing.T) {
	assert.Equal(t, "v1", ExtractNamespaceFromURL("https://api.example.com/v1"))
	assert.Equal(t, "beta", ExtractNamespaceFromURL("http://localhost:8000/api/beta"))
	assert.Equal(t, "", ExtractNamespaceFromURL("https://api.example.com"))
}

func TestDetectNamespaces_FromPaths(t *testing.T) {
	spec := map[string]any{
		"paths": map[string]any{
			"/v1/users":    map[string]any{},
			"/v1/products": map[string]any{},
			"/v2/users":    map[string]any{},
		},
	}

	namespaces := DetectNamespaces(spec)
	require.Len(t, namespaces, 2)
	assert.Equal(t, "v1", namespaces[0].Name)
	assert.Equal(t, "/v1", namespaces[0].PathPrefix)
	assert.Equal(t, "v2", namespaces[1].Name)
}

func TestDetectNamespaces_ServerFallback(t *testing.T) {
	spec := map[string]any{
		"paths": map[string]any{
			"/users": map[string]any{},
		},
		"servers": []any{
			map[string]any{"url": "https://api.example.com/v1"},
			map[string]any{"url": "https://api.example.com/v2"},
		},
	}

	namespaces := DetectNamespaces(spec)
	require.Len(t, namespaces, 1)
	assert.Equal(t, "v1", namespaces[0].Name)
}

func TestDetectNamespaces_Empty(t *testing.T) {
	spec := map[string]any{
		"paths": map[string]any{"/users": map[string]any{}},
	}
	assert.Empty(t, DetectNamespaces(spec))
}

func TestGroupPathsByNamespace(t *testing.T) {
	grouped := GroupPathsByNamespace([]string{"/v1/users", "/v1/products", "/v2/users", "/health"})

	assert.Equal(t, []string{"/v1/users", "/v1/products"}, grouped["v1"])
	assert.Equal(t, []string{"/v2/users"}, grouped["v2"])
	assert.Equal(t, []string{"/health"}, grouped["default"])
}
