package analyzer

import (
	"strings"

	"github.com/sdkgen-dev/sdkgen/pkg/ir"
)

// stageWords are release-stage segments recognized as namespaces.
var stageWords = map[string]struct{}{
	"beta": {}, "alpha": {}, "canary": {}, "preview": {},
}

// DetectNamespaces scans every path for a version or stage token and
// returns one Namespace per distinct token, first seen wins. When no
// path carries a token, the first declared server URL is consulted,
// yielding at most one namespace. An empty result means the caller must
// supply its own default. Paths are visited in sorted order so the
// result is deterministic.
func DetectNamespaces(spec map[string]any) []ir.Namespace {
	var namespaces []ir.Namespace
	seen := map[string]struct{}{}

	paths, _ := spec["paths"].(map[string]any)
	for _, path := range sortedKeys(paths) {
		token := ExtractNamespaceFromPath(path)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		namespaces = append(namespaces, ir.Namespace{Name: token, PathPrefix: "/" + token})
	}

	if len(namespaces) == 0 {
		if servers, _ := spec["servers"].([]any); len(servers) > 0 {
			if server, ok := servers[0].(map[string]any); ok {
				if serverURL, ok := server["url"].(string); ok {
					if token := ExtractNamespaceFromURL(serverURL); token != "" {
						namespaces = append(namespaces, ir.Namespace{Name: token, PathPrefix: "/" + token})
					}
				}
			}
		}
	}

	return namespaces
}

// ExtractNamespaceFromPath returns the first path segment that looks
// like a version (v<digits>), a release stage (beta, alpha, canary,
// preview), or the v<digits> segment immediately following a literal
// "api" segment. Empty when no segment matches.
func ExtractNamespaceFromPath(path string) string {
	parts := splitPath(path)
	for i, part := range parts {
		if isVersionSegment(part) {
			return part
		}
		if _, ok := stageWords[part]; ok {
			return part
		}
		if part == "api" && i+1 < len(parts) && isVersionSegment(parts[i+1]) {
			return parts[i+1]
		}
	}
	return ""
}

// ExtractNamespaceFromURL applies the path token detection to a server
// URL's path component.
func ExtractNamespaceFromURL(serverURL string) string {
	if idx := strings.Index(serverURL, "://"); idx >= 0 {
		serverURL = serverURL[idx+3:]
	}
	if idx := strings.Index(serverURL, "/"); idx >= 0 {
		return ExtractNamespaceFromPath(serverURL[idx:])
	}
	return ""
}

// GroupPathsByNamespace buckets paths by their detected token; paths
// with no token land under "default".
func GroupPathsByNamespace(paths []string) map[string][]string {
	grouped := map[string][]string{}
	for _, path := range paths {
		token := ExtractNamespaceFromPath(path)
		if token == "" {
			token = "default"
		}
		grouped[token] = append(grouped[token], path)
	}
	return grouped
}
