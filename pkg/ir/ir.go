// Package ir defines the intermediate representation produced by the
// analysis pipeline: resources, operations, namespaces and schema
// compositions, fully resolved and named, ready for template expansion.
//
// IR values are built once per analysis pass and are immutable afterwards;
// a new spec version triggers a fresh build.
package ir

import "strings"

// Reference is a parsed $ref locator: an optional external document part
// and an optional JSON-Pointer part, split on the first "#".
type Reference struct {
	// Raw is the original reference string.
	Raw string
	// Document is the external document locator (file path or URL).
	// Empty means "this document".
	Document string
	// Pointer is the RFC 6901 JSON Pointer into the document.
	Pointer string
}

// ParseReference splits a reference string into its document and pointer
// parts. "#/components/schemas/Pet" has an empty Document;
// "common.yaml#/Pet" has Document "common.yaml" and Pointer "/Pet";
// "common.yaml" has an empty Pointer.
func ParseReference(raw string) Reference {
	ref := Reference{Raw: raw}
	if idx := strings.Index(raw, "#"); idx >= 0 {
		ref.Document = raw[:idx]
		ref.Pointer = raw[idx+1:]
	} else {
		ref.Document = raw
	}
	return ref
}

// IsLocal reports whether the reference points into the current document.
func (r Reference) IsLocal() bool {
	return r.Document == ""
}

func (r Reference) String() string {
	return r.Raw
}

// CompositionKind identifies which composition keyword a schema uses.
// A schema has at most one kind; detection checks allOf, then oneOf,
// then anyOf.
type CompositionKind string

const (
	KindAllOf CompositionKind = "allOf"
	KindOneOf CompositionKind = "oneOf"
	KindAnyOf CompositionKind = "anyOf"
)

// CompositionMember is one member schema of a composition: either the
// bare name of a referenced schema, or an inline anonymous schema for
// which downstream generation must synthesize a name.
type CompositionMember struct {
	Name   string
	Inline map[string]any
}

// IsInline reports whether the member is an anonymous inline schema.
func (m CompositionMember) IsInline() bool {
	return m.Name == ""
}

// Discriminator is a declared field name plus an optional value-to-schema
// mapping used to pick the concrete member of a union schema.
type Discriminator struct {
	// PropertyName defaults to "type" when the spec omits it.
	PropertyName string
	Mapping      map[string]string
}

// Composition is a normalized allOf/oneOf/anyOf shape. Members is never
// empty. oneOf/anyOf remain unions in the IR; allOf chains may be
// flattened into a single product type via the schema analyzer.
type Composition struct {
	Kind          CompositionKind
	Members       []CompositionMember
	Discriminator *Discriminator
}

// Operation is a single API operation. Identity is (Path, Method),
// unique within a spec. The same Operation may appear under multiple
// resources when it declares multiple tags.
type Operation struct {
	Path        string
	Method      string
	OperationID string
	// Name is the inferred SDK method name (3-tier heuristic).
	Name string
	Tags []string
	// Raw is the resolved operation object from the source document.
	Raw map[string]any
}

// Resource is a group of operations, grouped by tag or by path heuristic.
type Resource struct {
	Name       string
	PathPrefix string
	// RequiresID is set when every path of the resource shares exactly
	// one id-like path parameter, named by IDParamName.
	RequiresID  bool
	IDParamName string
	Operations  []Operation
	// Nested maps sub-resource names to the operations detected under
	// them. Groups with fewer than two operations are folded back into
	// Operations instead.
	Nested map[string][]Operation
}

// Namespace is a version or release-stage grouping of API paths
// (v1, v2, beta, ...). Resources are associated by path containment,
// not by ownership.
type Namespace struct {
	Name       string
	PathPrefix string
	// Resources lists the names of resources whose paths fall under
	// this namespace.
	Resources []string
}

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a non-fatal finding from the analysis pass, such as a
// naming heuristic falling through to a generic default. Diagnostics
// never abort the build; the IR remains usable.
type Diagnostic struct {
	Severity  Severity
	Component string
	Message   string
	Path      string
	Method    string
}

// NamingConventions summarizes the naming styles detected across the
// spec's schemas and parameters.
type NamingConventions struct {
	Request   string
	Response  string
	Parameter string
}

// Spec is the root of the IR: everything the code generators consume.
type Spec struct {
	Title       string
	Version     string
	Description string
	BaseURL     string

	Resources  []Resource
	Namespaces []Namespace
	Naming     NamingConventions

	Diagnostics []Diagnostic
}

// Resource returns the named resource, or nil.
func (s *Spec) Resource(name string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].Name == name {
			return &s.Resources[i]
		}
	}
	return nil
}
