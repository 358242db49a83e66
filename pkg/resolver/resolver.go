// Package resolver replaces every $ref in an OpenAPI document with the
// value it points to, whether the target lives in the same document, in
// another file, or behind a URL. Circular references are detected and
// replaced with an explicit marker node instead of recursing forever.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sdkgen-dev/sdkgen/pkg/httpcache"
	"github.com/sdkgen-dev/sdkgen/pkg/ir"
)

const (
	// RefKey marks a reference node in a raw document.
	RefKey = "$ref"
	// CircularRefKey marks a node whose reference was already being
	// resolved on the current stack. The value is the original $ref
	// string, so generators can decide how to represent the cycle.
	CircularRefKey = "$circular_ref"
)

// Fetcher loads a remote document. Implementations must be idempotent;
// httpcache.Cache is the default.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (map[string]any, error)
}

// Resolver resolves all references within one specification. Its caches
// are scoped to a single Resolve call and reset on entry, so a Resolver
// must not be shared across concurrent resolutions of different specs;
// create one per spec instead.
type Resolver struct {
	basePath string
	fetcher  Fetcher

	// resolved memoizes fully-resolved values by reference string.
	resolved map[string]any
	// resolving tracks references on the current call stack for cycle
	// detection.
	resolving map[string]struct{}
	// documents caches loaded external documents by locator, so each
	// external file or URL is fetched at most once per pass.
	documents map[string]map[string]any
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBasePath sets the directory used to resolve relative file
// references. Defaults to the process working directory.
func WithBasePath(dir string) Option {
	return func(r *Resolver) { r.basePath = dir }
}

// WithFetcher replaces the remote document fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *Resolver) { r.fetcher = f }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.basePath == "" {
		if wd, err := os.Getwd(); err == nil {
			r.basePath = wd
		} else {
			r.basePath = "."
		}
	}
	return r
}

// Resolve returns a copy of spec with every $ref replaced by its target.
// Circular references become {"$circular_ref": "<ref>"} markers. Caches
// are reset on entry so each call starts from a clean state.
func (r *Resolver) Resolve(ctx context.Context, spec map[string]any) (map[string]any, error) {
	r.resolved = map[string]any{}
	r.resolving = map[string]struct{}{}
	r.documents = map[string]map[string]any{}

	out, err := r.resolveNode(ctx, spec, spec)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// resolveNode walks a node depth-first. doc is the document root against
// which local references are resolved; it switches to the external
// document when resolution crosses a file or URL boundary.
func (r *Resolver) resolveNode(ctx context.Context, node any, doc map[string]any) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		if raw, ok := n[RefKey].(string); ok {
			return r.resolveRef(ctx, raw, doc)
		}
		out := make(map[string]any, len(n))
		for key, value := range n {
			resolved, err := r.resolveNode(ctx, value, doc)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil

	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			resolved, err := r.resolveNode(ctx, item, doc)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return node, nil
	}
}

func (r *Resolver) resolveRef(ctx context.Context, raw string, doc map[string]any) (any, error) {
	if _, busy := r.resolving[raw]; busy {
		return map[string]any{CircularRefKey: raw}, nil
	}
	if cached, ok := r.resolved[raw]; ok {
		return cached, nil
	}

	r.resolving[raw] = struct{}{}
	// Unmark even on failure so a later retry is possible.
	defer delete(r.resolving, raw)

	ref := ir.ParseReference(raw)
	target, owner, err := r.dereference(ctx, ref, doc)
	if err != nil {
		return nil, err
	}

	// The target may itself contain further references; resolve them
	// against the document it came from before caching.
	resolved, err := r.resolveNode(ctx, target, owner)
	if err != nil {
		return nil, err
	}
	r.resolved[raw] = resolved
	return resolved, nil
}

// dereference locates a reference's target and the document that owns it.
func (r *Resolver) dereference(ctx context.Context, ref ir.Reference, doc map[string]any) (any, map[string]any, error) {
	owner := doc
	if !ref.IsLocal() {
		external, err := r.loadExternal(ctx, ref.Document)
		if err != nil {
			return nil, nil, err
		}
		owner = external
	}

	target, err := navigatePointer(owner, ref.Pointer, ref.Raw)
	if err != nil {
		return nil, nil, err
	}
	return target, owner, nil
}

// loadExternal loads an external document by file path or URL, caching
// it for the remainder of the pass.
func (r *Resolver) loadExternal(ctx context.Context, locator string) (map[string]any, error) {
	if doc, ok := r.documents[locator]; ok {
		return doc, nil
	}

	var doc map[string]any
	if isURL(locator) {
		fetcher, err := r.remoteFetcher()
		if err != nil {
			return nil, err
		}
		fetched, err := fetcher.Fetch(ctx, locator)
		if err != nil {
			return nil, &FetchError{Locator: locator, Err: err}
		}
		doc = fetched
	} else {
		path := locator
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.basePath, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &FetchError{Locator: locator, Err: err}
		}
		decoded, err := httpcache.Decode(data)
		if err != nil {
			return nil, &FetchError{Locator: locator, Err: err}
		}
		doc = decoded
	}

	r.documents[locator] = doc
	return doc, nil
}

func (r *Resolver) remoteFetcher() (Fetcher, error) {
	if r.fetcher == nil {
		cache, err := httpcache.New("")
		if err != nil {
			return nil, err
		}
		r.fetcher = cache
	}
	return r.fetcher, nil
}

func isURL(locator string) bool {
	u, err := url.Parse(locator)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// navigatePointer walks an RFC 6901 JSON Pointer. An empty or "/"
// pointer selects the whole document.
func navigatePointer(doc any, pointer, ref string) (any, error) {
	if pointer == "" || pointer == "/" {
		return doc, nil
	}

	path := strings.TrimPrefix(pointer, "/")
	current := doc
	for _, segment := range strings.Split(path, "/") {
		key := unescapeSegment(segment)

		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, &ReferenceError{
					Ref:     ref,
					Pointer: pointer,
					Reason:  fmt.Sprintf("key %q not found", key),
				}
			}
			current = next

		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil {
				return nil, &ReferenceError{
					Ref:     ref,
					Pointer: pointer,
					Reason:  fmt.Sprintf("array index %q is not an integer", key),
				}
			}
			if idx < 0 || idx >= len(node) {
				return nil, &ReferenceError{
					Ref:     ref,
					Pointer: pointer,
					Reason:  fmt.Sprintf("array index %d out of range (len %d)", idx, len(node)),
				}
			}
			current = node[idx]

		default:
			return nil, &ReferenceError{
				Ref:     ref,
				Pointer: pointer,
				Reason:  fmt.Sprintf("cannot descend into scalar at %q", key),
			}
		}
	}
	return current, nil
}

// unescapeSegment applies the RFC 6901 escapes: ~1 before ~0, so that
// "~01" round-trips to "~1" and not "/".
func unescapeSegment(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// ExtractReferences collects every $ref string in the document,
// deduplicated and sorted. It is a diagnostic aid and does not resolve
// anything.
func ExtractReferences(spec any) []string {
	seen := map[string]struct{}{}

	var visit func(node any)
	visit = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			if raw, ok := n[RefKey].(string); ok {
				seen[raw] = struct{}{}
			}
			for _, value := range n {
				visit(value)
			}
		case []any:
			for _, item := range n {
				visit(item)
			}
		}
	}
	visit(spec)

	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// IsCircular reports whether a resolved node is a circular-reference
// marker, returning the original reference string when it is.
func IsCircular(node any) (string, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return "", false
	}
	ref, ok := m[CircularRefKey].(string)
	return ref, ok
}
