// Package analyzer turns a resolved OpenAPI document into the IR:
// operations grouped into resources, inferred method names, detected
// namespaces, nested sub-resources and schema compositions.
//
// Every function here is stateless and pure over its inputs, so the
// analyzers are re-entrant and callable concurrently on independent specs.
package analyzer

import (
	"sort"
	"strings"
)

// TaggedOperation is one (path, method, operation) triple as collected
// from the document. The same operation appears under every tag it
// declares; membership is shared, not exclusive.
type TaggedOperation struct {
	Path      string
	Method    string
	Operation map[string]any
}

// httpMethods is the fixed set of methods consulted on each path item.
var httpMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// simpleVerbs is the vocabulary accepted from a cleaned operationId
// (naming tier 1).
var simpleVerbs = map[string]struct{}{
	"create": {}, "list": {}, "get": {}, "update": {}, "delete": {},
	"download": {}, "upload": {}, "export": {}, "import": {},
}

// actionWords is the RPC-style action vocabulary recognized as the last
// path segment of a sub-resource endpoint (naming tier 2).
var actionWords = map[string]struct{}{
	// File operations
	"download": {}, "upload": {}, "export": {}, "import": {},
	// State changes
	"activate": {}, "deactivate": {}, "enable": {}, "disable": {},
	"publish": {}, "unpublish": {}, "archive": {}, "unarchive": {},
	// Workflow
	"approve": {}, "reject": {}, "cancel": {}, "complete": {},
	"submit": {}, "confirm": {}, "verify": {}, "validate": {},
	// Execution
	"execute": {}, "trigger": {}, "run": {}, "start": {}, "stop": {},
	"pause": {}, "resume": {}, "retry": {}, "restart": {},
	// Data operations
	"refresh": {}, "sync": {}, "clone": {}, "duplicate": {}, "copy": {},
	"resend": {}, "reprocess": {},
	// Utility
	"summary": {}, "status": {}, "health": {}, "me": {}, "current": {},
}

// GroupByTags groups every operation in the spec by its declared tags.
// Operations without tags fall back to a single synthetic tag derived
// from the path. Paths are visited in sorted order for determinism.
func GroupByTags(spec map[string]any) map[string][]TaggedOperation {
	grouped := map[string][]TaggedOperation{}

	paths, _ := spec["paths"].(map[string]any)
	for _, path := range sortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range httpMethods {
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}

			tags := stringSlice(op["tags"])
			if len(tags) == 0 {
				tags = []string{ExtractResourceFromPath(path)}
			}

			for _, tag := range tags {
				grouped[tag] = append(grouped[tag], TaggedOperation{
					Path:      path,
					Method:    strings.ToUpper(method),
					Operation: op,
				})
			}
		}
	}
	return grouped
}

// ExtractResourceFromPath derives a resource name from a path when no
// tag is declared. A segment is skipped when it is a path parameter, a
// bare v<digits> version token, or one of the api/beta/alpha keywords;
// the first surviving segment wins, "default" when none survive.
func ExtractResourceFromPath(path string) string {
	for _, part := range splitPath(path) {
		if strings.HasPrefix(part, "{") {
			continue
		}
		if isVersionSegment(part) {
			continue
		}
		if part == "api" || part == "beta" || part == "alpha" {
			continue
		}
		return part
	}
	return "default"
}

// DetectPathPrefix finds the common non-parameter prefix shared by a
// resource's paths, or "" when the paths diverge.
func DetectPathPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	if len(paths) == 1 {
		base := nonParamSegments(paths[0])
		if len(base) == 0 {
			return ""
		}
		if len(base) > 2 {
			base = base[:2]
		}
		return "/" + strings.Join(base, "/")
	}

	common := ""
	for _, path := range paths {
		base := nonParamSegments(path)
		if len(base) == 0 {
			continue
		}
		prefix := "/" + base[0]
		if common == "" {
			common = prefix
		} else if !strings.HasPrefix(common, prefix) && !strings.HasPrefix(prefix, common) {
			return ""
		}
	}
	return common
}

// RequiresResourceID reports whether a resource should take an id at
// construction time: true only when exactly one distinct id-like path
// parameter name occurs across all of its paths.
func RequiresResourceID(paths []string) (bool, string) {
	idParams := map[string]struct{}{}
	for _, path := range paths {
		for _, part := range splitPath(path) {
			if !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
				continue
			}
			param := part[1 : len(part)-1]
			if strings.Contains(strings.ToLower(param), "id") {
				idParams[param] = struct{}{}
			}
		}
	}

	if len(idParams) == 1 {
		for param := range idParams {
			return true, param
		}
	}
	return false, ""
}

// ResponseIsArray checks whether the primary response (status "200",
// then "201"; the first present decides) declares an array JSON schema.
func ResponseIsArray(responses map[string]any) bool {
	for _, status := range []string{"200", "201"} {
		response, ok := responses[status].(map[string]any)
		if !ok {
			continue
		}
		content, _ := response["content"].(map[string]any)
		media, _ := content["application/json"].(map[string]any)
		schema, ok := media["schema"].(map[string]any)
		if !ok {
			continue
		}
		return schema["type"] == "array"
	}
	return false
}

// CleanOperationID strips framework-generated suffixes of the form
// _api_<...> from an operationId, including a trailing v1/v2/beta stage
// token left before the suffix.
func CleanOperationID(operationID string) string {
	if !strings.Contains(operationID, "_api_") {
		return operationID
	}
	parts := strings.Split(strings.SplitN(operationID, "_api_", 2)[0], "_")
	if len(parts) > 0 {
		switch parts[len(parts)-1] {
		case "v1", "v2", "beta":
			parts = parts[:len(parts)-1]
		}
	}
	return strings.Join(parts, "_")
}

// Naming tiers, in strict priority order.
const (
	tierOperationID = 1
	tierRPCAction   = 2
	tierMethodShape = 3
	// tierFallback is the generic lower-cased-method fallback; the
	// builder reports it as a low-severity diagnostic.
	tierFallback = 4
)

// InferOperationName infers a stable method name for an operation using
// the 3-tier priority scheme: a simple-verb operationId wins, then an
// RPC-style action segment, then HTTP method plus response shape.
func InferOperationName(method, path, operationID string, responses map[string]any) string {
	name, _ := inferOperationName(method, path, operationID, responses)
	return name
}

func inferOperationName(method, path, operationID string, responses map[string]any) (string, int) {
	pathParts := nonParamSegments(path)
	hasPathParam := strings.Contains(path, "{")

	// Tier 1: declared operationId, if it cleans down to a simple verb.
	if operationID != "" {
		cleaned := CleanOperationID(operationID)
		if _, ok := simpleVerbs[cleaned]; ok {
			return cleaned, tierOperationID
		}
	}

	// Tier 2: RPC-style action as the last segment of a nested path.
	if len(pathParts) > 1 {
		last := pathParts[len(pathParts)-1]
		if _, ok := actionWords[last]; ok {
			return strings.ToLower(last), tierRPCAction
		}
	}

	// Tier 3: HTTP method + response shape.
	switch method {
	case "GET":
		if !hasPathParam {
			if ResponseIsArray(responses) {
				return "list", tierMethodShape
			}
			// Singleton utility endpoints like /health or /status.
			if len(pathParts) > 0 {
				return strings.ToLower(pathParts[len(pathParts)-1]), tierMethodShape
			}
			return "get", tierMethodShape
		}
		return "get", tierMethodShape
	case "POST":
		return "create", tierMethodShape
	case "PUT", "PATCH":
		return "update", tierMethodShape
	case "DELETE":
		return "delete", tierMethodShape
	}

	return strings.ToLower(method), tierFallback
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func nonParamSegments(path string) []string {
	var out []string
	for _, part := range splitPath(path) {
		if !strings.HasPrefix(part, "{") {
			out = append(out, part)
		}
	}
	return out
}

func isVersionSegment(part string) bool {
	if len(part) < 2 || part[0] != 'v' {
		return false
	}
	for _, c := range part[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
